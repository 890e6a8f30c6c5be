package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
)

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	NumOutputs        int     `json:"num_outputs"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	Scheduler         string  `json:"scheduler"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Error  string   `json:"error"`
	Output []string `json:"output"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

type replicateFrameRenderer struct {
	ContentFetcher
	logger          outbound.LoggerPort
	replicateConfig *config.ReplicateConfig
}

func NewReplicateFrameRenderer(contentFetcher ContentFetcher, replicateConfig *config.ReplicateConfig, logger outbound.LoggerPort) outbound.FrameRendererPort {
	return &replicateFrameRenderer{
		ContentFetcher:  contentFetcher,
		logger:          logger,
		replicateConfig: replicateConfig,
	}
}

func (r *replicateFrameRenderer) Render(ctx context.Context, prompt domain.ScenePrompt, outputFile string) error {
	prediction, err := r.createPrediction(ctx, prompt.Text)
	if err != nil {
		return err
	}

	prediction, err = r.awaitPrediction(ctx, prediction)
	if err != nil {
		return err
	}

	if len(prediction.Output) == 0 {
		return fmt.Errorf("frame rendering: prediction %s produced no output", prediction.ID)
	}

	return r.downloadImage(ctx, prediction.Output[0], outputFile)
}

func (r *replicateFrameRenderer) createPrediction(ctx context.Context, prompt string) (*predictionResponse, error) {
	reqBody := predictionRequest{
		Version: r.replicateConfig.ModelVersion,
		Input: predictionInput{
			Prompt:            prompt,
			NegativePrompt:    r.replicateConfig.NegativePrompt,
			NumOutputs:        1,
			GuidanceScale:     r.replicateConfig.GuidanceScale,
			NumInferenceSteps: r.replicateConfig.InferenceSteps,
			Scheduler:         r.replicateConfig.Scheduler,
			Width:             r.replicateConfig.Width,
			Height:            r.replicateConfig.Height,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		r.logger.Error(err, "Failed to marshal the prediction request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.replicateConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error(err, "Failed to create the prediction HTTP request")
		return nil, err
	}
	r.setHeaders(req)

	rawRes, err := r.FetchContent(req)
	if err != nil {
		r.logger.Error(err, "Failed to create prediction")
		return nil, err
	}

	var prediction predictionResponse
	if err := json.Unmarshal(rawRes, &prediction); err != nil {
		r.logger.Error(err, "Failed to unmarshal the prediction response")
		return nil, err
	}

	return &prediction, nil
}

func (r *replicateFrameRenderer) awaitPrediction(ctx context.Context, prediction *predictionResponse) (*predictionResponse, error) {
	ticker := time.NewTicker(r.replicateConfig.PollInterval)
	defer ticker.Stop()

	for {
		switch prediction.Status {
		case "succeeded":
			return prediction, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("frame rendering: prediction %s %s: %s", prediction.ID, prediction.Status, prediction.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		refreshed, err := r.getPrediction(ctx, prediction.URLs.Get)
		if err != nil {
			return nil, err
		}
		prediction = refreshed
	}
}

func (r *replicateFrameRenderer) getPrediction(ctx context.Context, url string) (*predictionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.Error(err, "Failed to create the prediction poll request")
		return nil, err
	}
	r.setHeaders(req)

	rawRes, err := r.FetchContent(req)
	if err != nil {
		r.logger.Error(err, "Failed to poll prediction")
		return nil, err
	}

	var prediction predictionResponse
	if err := json.Unmarshal(rawRes, &prediction); err != nil {
		r.logger.Error(err, "Failed to unmarshal the prediction poll response")
		return nil, err
	}

	return &prediction, nil
}

func (r *replicateFrameRenderer) downloadImage(ctx context.Context, url string, outputFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.Error(err, "Failed to create the image download request")
		return err
	}

	payload, err := r.FetchContent(req)
	if err != nil {
		r.logger.Error(err, "Failed to download generated image")
		return err
	}

	if err := os.WriteFile(outputFile, payload, 0o644); err != nil {
		r.logger.Error(err, "Failed to write frame to file")
		return err
	}

	r.logger.DebugWithFields("Frame written", map[string]interface{}{
		"file": outputFile,
	})

	return nil
}

func (r *replicateFrameRenderer) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+r.replicateConfig.ApiToken)
	req.Header.Set("Content-Type", "application/json")
}
