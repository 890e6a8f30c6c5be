package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
)

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

type openaiSpeechSynthesizer struct {
	ContentFetcher
	logger       outbound.LoggerPort
	speechConfig *config.SpeechConfig
}

func NewOpenAISpeechSynthesizer(contentFetcher ContentFetcher, speechConfig *config.SpeechConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &openaiSpeechSynthesizer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		speechConfig:   speechConfig,
	}
}

func (s *openaiSpeechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) (*domain.NarrationAsset, error) {
	httpReq, err := s.createRequest(ctx, req.Text)
	if err != nil {
		s.logger.Error(err, "Failed to construct the HTTP request for speech synthesis")
		return nil, err
	}

	audioStream, err := s.FetchStream(httpReq)
	if err != nil {
		s.logger.Error(err, "Failed to fetch synthesized audio")
		return nil, err
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close the audio response body")
		}
	}(audioStream)

	file, err := os.Create(req.OutputFile)
	if err != nil {
		s.logger.Error(err, "Failed to create narration file")
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close narration file")
		}
	}(file)

	if _, err = io.Copy(file, audioStream); err != nil {
		s.logger.Error(err, "Failed to write narration audio to file")
		return nil, err
	}

	s.logger.DebugWithFields("Narration audio written", map[string]interface{}{
		"file": req.OutputFile,
	})

	return &domain.NarrationAsset{FileName: req.OutputFile}, nil
}

func (s *openaiSpeechSynthesizer) createRequest(ctx context.Context, text string) (*http.Request, error) {
	reqBody := speechRequest{
		Model: s.speechConfig.Model,
		Input: text,
		Voice: s.speechConfig.Voice,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the speech request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.speechConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP POST request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.speechConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	return req, nil
}
