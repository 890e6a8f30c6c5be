package outbound

import (
	"generate-video-pipeline/domain"
)

// RunWorkspacePort creates the per-run directory layout on disk.
type RunWorkspacePort interface {
	CreateRunDir(topic string) (*domain.RunPaths, error)
}
