package inbound

import (
	"context"
	"generate-video-pipeline/domain"
)

type GenerateFramesParams struct {
	Scenes    []domain.ScenePrompt
	FramesDir string
}

// FrameGeneratorPort renders every scene prompt and returns the frames in
// scene order.
type FrameGeneratorPort interface {
	Generate(ctx context.Context, params GenerateFramesParams) ([]domain.Frame, error)
}
