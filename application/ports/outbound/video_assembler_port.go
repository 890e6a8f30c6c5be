package outbound

import (
	"generate-video-pipeline/domain"
)

type AssembleVideoRequest struct {
	Narration  domain.NarrationAsset
	Frames     []domain.Frame
	OutputFile string
}

type VideoAssemblerPort interface {
	Assemble(req AssembleVideoRequest) (*domain.VideoArtifact, error)
}
