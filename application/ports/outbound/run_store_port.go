package outbound

import (
	"context"
	"generate-video-pipeline/domain"
)

type RunStorePort interface {
	Save(ctx context.Context, record domain.RunRecord) error
}
