package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
	"github.com/donovanhide/eventsource"
)

const DoneSignal = "[DONE]"
const MaxStreamRetries = 3

type chatCompletionRequest struct {
	Stream   bool                  `json:"stream"`
	Model    string                `json:"model"`
	Messages []chatCompletionEntry `json:"messages"`
}

type chatCompletionEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChunk struct {
	Choices []chatCompletionChoice `json:"choices"`
}

type chatCompletionChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

// streamingScriptGenerator streams the completion over SSE and derives scene
// prompts from square-bracketed descriptions embedded in the script text.
type streamingScriptGenerator struct {
	logger       outbound.LoggerPort
	scriptConfig *config.ScriptConfig
	sceneRegexp  *regexp.Regexp
}

func NewStreamingScriptGenerator(scriptConfig *config.ScriptConfig, logger outbound.LoggerPort) outbound.ScriptGeneratorPort {
	return &streamingScriptGenerator{
		logger:       logger,
		scriptConfig: scriptConfig,
		sceneRegexp:  regexp.MustCompile(`\[(.*?)]`),
	}
}

func (s *streamingScriptGenerator) Generate(ctx context.Context, topic string) (*domain.ScriptPackage, error) {
	req, err := s.createRequest(ctx, topic)
	if err != nil {
		s.logger.Error(err, "Failed to create HTTP request for script stream")
		return nil, err
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		s.logger.Error(err, "Failed to subscribe to script stream")
		return nil, err
	}
	defer stream.Close()

	var builder strings.Builder
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == DoneSignal {
				continue
			}
			token, err := s.extractToken(ev)
			if err != nil {
				return nil, err
			}
			builder.WriteString(token)
			retryCount = 0
		case err := <-stream.Errors:
			if err == io.EOF {
				s.logger.Debug("Script stream closed")
				script, scenes := s.splitScenes(builder.String())
				return BuildScriptPackage(script, scenes)
			}
			if retryCount < MaxStreamRetries {
				s.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
					"retry_count": retryCount,
				})
				retryCount++
				continue
			}
			s.logger.Error(err, "Error occurred during streaming, max retries reached")
			return nil, err
		}
	}
}

func (s *streamingScriptGenerator) extractToken(event eventsource.Event) (string, error) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(event.Data()), &chunk); err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

// splitScenes pulls every [scene description] out of the generated text. The
// bracketed descriptions become image prompts in order of appearance and the
// remaining prose is the narration script.
func (s *streamingScriptGenerator) splitScenes(text string) (string, []string) {
	scenes := make([]string, 0)
	for _, match := range s.sceneRegexp.FindAllStringSubmatch(text, -1) {
		scene := normalizeGeneratedText(match[1])
		if scene != "" {
			scenes = append(scenes, scene)
		}
	}

	script := s.sceneRegexp.ReplaceAllString(text, " ")
	return normalizeGeneratedText(script), scenes
}

func normalizeGeneratedText(input string) string {
	result := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\\", "").Replace(input)
	return strings.TrimSpace(strings.Join(strings.Fields(result), " "))
}

func (s *streamingScriptGenerator) createRequest(ctx context.Context, topic string) (*http.Request, error) {
	promptMessage := chatCompletionEntry{
		Role: "system",
		Content: fmt.Sprintf("Write a short narration script on the topic: %s.\n"+
			"Insert a visual scene description in squared brackets wherever the imagery changes.\n"+
			"Example: [A city skyline at dawn, soft light]\n"+
			"The squared bracket descriptions:\n"+
			"- Should not contain any names\n"+
			"- Should be descriptive in a short manner (at most one sentence)\n"+
			"- Should not be part of the narration itself\n"+
			"The narration outside the brackets must stay under %d characters.", topic, domain.MaxScriptChars),
	}

	promptReq := chatCompletionRequest{
		Stream:   true,
		Model:    s.scriptConfig.Model,
		Messages: []chatCompletionEntry{promptMessage},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.scriptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.scriptConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
