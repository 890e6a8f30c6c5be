package config

type PipelineConfig struct {
	OutputRoot string
	FrameRate  int
}

func GetPipelineConfig() (*PipelineConfig, error) {
	return &PipelineConfig{
		OutputRoot: envOrDefault("OUTPUT_ROOT", "output"),
		FrameRate:  24,
	}, nil
}
