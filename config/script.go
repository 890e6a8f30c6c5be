package config

import (
	"fmt"
	"os"
)

const (
	ScriptModeStructured = "structured"
	ScriptModeStream     = "stream"
)

type ScriptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
	Mode   string
}

func GetScriptConfig() (*ScriptConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}

	mode := envOrDefault("SCRIPT_MODE", ScriptModeStructured)
	if mode != ScriptModeStructured && mode != ScriptModeStream {
		return nil, fmt.Errorf("SCRIPT_MODE must be %q or %q, got %q", ScriptModeStructured, ScriptModeStream, mode)
	}

	return &ScriptConfig{
		ApiUrl: envOrDefault("GPT_API_URL", "https://api.openai.com/v1/chat/completions"),
		ApiKey: apiKey,
		Model:  envOrDefault("GPT_MODEL", "gpt-4o"),
		Mode:   mode,
	}, nil
}
