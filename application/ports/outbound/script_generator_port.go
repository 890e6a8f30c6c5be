package outbound

import (
	"context"
	"generate-video-pipeline/domain"
)

type ScriptGeneratorPort interface {
	Generate(ctx context.Context, topic string) (*domain.ScriptPackage, error)
}
