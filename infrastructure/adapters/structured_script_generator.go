package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ScriptResponse is the structured output contract for script generation.
type ScriptResponse struct {
	Script string   `json:"script" jsonschema_description:"The narration text, at most 1000 characters"`
	Scenes []string `json:"scenes" jsonschema_description:"Ordered visual scene descriptions for image generation, one per frame"`
}

// GenerateSchema builds a JSON schema compatible with the structured-outputs
// subset.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var scriptResponseSchema = GenerateSchema[ScriptResponse]()

type structuredScriptGenerator struct {
	logger       outbound.LoggerPort
	scriptConfig *config.ScriptConfig
	client       openai.Client
}

func NewStructuredScriptGenerator(scriptConfig *config.ScriptConfig, logger outbound.LoggerPort) outbound.ScriptGeneratorPort {
	return &structuredScriptGenerator{
		logger:       logger,
		scriptConfig: scriptConfig,
		client:       openai.NewClient(option.WithAPIKey(scriptConfig.ApiKey)),
	}
}

func (s *structuredScriptGenerator) Generate(ctx context.Context, topic string) (*domain.ScriptPackage, error) {
	prompt := fmt.Sprintf(`Create a short, engaging script about %s. The script should be:
1. Maximum %d characters
2. Easy to understand
3. Suitable for video narration
4. Include clear scene descriptions for image generation

Respond with the narration text in "script" and an ordered list of visual scene descriptions in "scenes".`,
		topic, domain.MaxScriptChars)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_script",
		Description: openai.String("A narration script with ordered scene descriptions"),
		Schema:      scriptResponseSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a creative scriptwriter."),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(s.scriptConfig.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		s.logger.Error(err, "Script completion request failed")
		return nil, fmt.Errorf("script generation: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("script generation: no choices in completion response")
	}

	rawResponse := chatCompletion.Choices[0].Message.Content
	if rawResponse == "" {
		return nil, fmt.Errorf("script generation: empty completion, finish reason %s", chatCompletion.Choices[0].FinishReason)
	}

	var scriptResponse ScriptResponse
	if err := json.Unmarshal([]byte(rawResponse), &scriptResponse); err != nil {
		s.logger.ErrorWithFields(err, "Failed to parse script completion", map[string]interface{}{
			"raw": rawResponse,
		})
		return nil, fmt.Errorf("script generation: failed to parse completion: %w", err)
	}

	return BuildScriptPackage(scriptResponse.Script, scriptResponse.Scenes)
}

// BuildScriptPackage validates and normalizes a generated script, assigning
// scene ordinals and enforcing the script length bound.
func BuildScriptPackage(script string, scenes []string) (*domain.ScriptPackage, error) {
	script = domain.ClampScript(script)
	if script == "" {
		return nil, fmt.Errorf("script generation: generated script is empty")
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("script generation: no scene descriptions generated")
	}

	prompts := make([]domain.ScenePrompt, 0, len(scenes))
	for i, scene := range scenes {
		prompts = append(prompts, domain.ScenePrompt{
			ID:      uuid.NewString(),
			Text:    scene,
			Ordinal: i,
		})
	}

	return &domain.ScriptPackage{
		Script: script,
		Scenes: prompts,
	}, nil
}
