package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultDiffusionVersion pins the stable-diffusion release used for frame
// rendering.
const DefaultDiffusionVersion = "db21e45d3f7023abc2a46ee38a23973f6dce16bb082a930b0c49861f96d1e5bf"

type ReplicateConfig struct {
	ApiUrl         string
	ApiToken       string
	ModelVersion   string
	Width          int
	Height         int
	GuidanceScale  float64
	InferenceSteps int
	Scheduler      string
	NegativePrompt string
	PollInterval   time.Duration
}

func GetReplicateConfig() (*ReplicateConfig, error) {
	apiToken := os.Getenv("REPLICATE_API_TOKEN")
	if apiToken == "" {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN must be set")
	}

	pollInterval := 2 * time.Second
	if raw := os.Getenv("REPLICATE_POLL_INTERVAL_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REPLICATE_POLL_INTERVAL_MS: %w", err)
		}
		pollInterval = time.Duration(ms) * time.Millisecond
	}

	return &ReplicateConfig{
		ApiUrl:         envOrDefault("REPLICATE_API_URL", "https://api.replicate.com/v1/predictions"),
		ApiToken:       apiToken,
		ModelVersion:   envOrDefault("REPLICATE_MODEL_VERSION", DefaultDiffusionVersion),
		Width:          1024,
		Height:         576,
		GuidanceScale:  7.5,
		InferenceSteps: 50,
		Scheduler:      "K_EULER",
		NegativePrompt: "blurry, low quality, distorted",
		PollInterval:   pollInterval,
	}, nil
}
