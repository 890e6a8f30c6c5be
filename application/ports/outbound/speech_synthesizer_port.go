package outbound

import (
	"context"
	"generate-video-pipeline/domain"
)

type SynthesizeSpeechRequest struct {
	Text       string
	OutputFile string
}

type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) (*domain.NarrationAsset, error)
}
