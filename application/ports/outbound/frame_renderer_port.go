package outbound

import (
	"context"
	"generate-video-pipeline/domain"
)

// FrameRendererPort renders a single scene prompt to a still image on disk.
type FrameRendererPort interface {
	Render(ctx context.Context, prompt domain.ScenePrompt, outputFile string) error
}
