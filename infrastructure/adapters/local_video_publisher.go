package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"generate-video-pipeline/application/ports/outbound"
)

// localVideoPublisher leaves the artifact where the assembler wrote it and
// only verifies that a non-empty file exists there.
type localVideoPublisher struct {
	logger outbound.LoggerPort
}

func NewLocalVideoPublisher(logger outbound.LoggerPort) outbound.VideoPublisherPort {
	return &localVideoPublisher{
		logger: logger,
	}
}

func (p *localVideoPublisher) Publish(_ context.Context, req outbound.PublishVideoRequest) (*outbound.PublishVideoResponse, error) {
	info, err := os.Stat(req.VideoFileName)
	if err != nil {
		p.logger.Error(err, "Final video is missing")
		return nil, fmt.Errorf("publish video: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("publish video: %s is empty", req.VideoFileName)
	}

	location, err := filepath.Abs(req.VideoFileName)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("Video published", map[string]interface{}{
		"location": location,
		"bytes":    info.Size(),
	})

	return &outbound.PublishVideoResponse{Location: location}, nil
}
