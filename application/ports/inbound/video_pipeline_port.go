package inbound

import "context"

type StartRunParams struct {
	RunID string
	Topic string
}

type RunResult struct {
	RunID         string
	VideoFileName string
	Location      string
	Duration      float64
	FrameCount    int
}

type VideoPipelinePort interface {
	Run(ctx context.Context, params StartRunParams) (*RunResult, error)
}
