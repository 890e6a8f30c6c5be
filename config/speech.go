package config

import (
	"fmt"
	"os"
)

type SpeechConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
	Voice  string
}

func GetSpeechConfig() (*SpeechConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}

	return &SpeechConfig{
		ApiUrl: envOrDefault("TTS_API_URL", "https://api.openai.com/v1/audio/speech"),
		ApiKey: apiKey,
		Model:  envOrDefault("TTS_MODEL", "tts-1"),
		Voice:  envOrDefault("TTS_VOICE", "alloy"),
	}, nil
}
