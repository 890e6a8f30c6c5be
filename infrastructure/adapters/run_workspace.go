package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
)

const (
	narrationFileName = "narration.mp3"
	videoFileName     = "final_video.mp4"
	framesDirName     = "frames"
)

type runWorkspace struct {
	logger     outbound.LoggerPort
	outputRoot string
	now        func() time.Time
}

func NewRunWorkspace(outputRoot string, logger outbound.LoggerPort) outbound.RunWorkspacePort {
	return &runWorkspace{
		logger:     logger,
		outputRoot: outputRoot,
		now:        time.Now,
	}
}

// CreateRunDir creates output/<timestamp>_<topic>/ with a frames/
// subdirectory and returns the run's artifact paths.
func (w *runWorkspace) CreateRunDir(topic string) (*domain.RunPaths, error) {
	timestamp := w.now().Format("20060102_150405")
	dirName := fmt.Sprintf("%s_%s", timestamp, domain.SanitizeTopic(topic))
	rootDir := filepath.Join(w.outputRoot, dirName)
	framesDir := filepath.Join(rootDir, framesDirName)

	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		w.logger.Error(err, "Failed to create run directory")
		return nil, err
	}

	w.logger.InfoWithFields("Created run directory", map[string]interface{}{
		"dir": rootDir,
	})

	return &domain.RunPaths{
		RootDir:       rootDir,
		FramesDir:     framesDir,
		NarrationFile: filepath.Join(rootDir, narrationFileName),
		VideoFile:     filepath.Join(rootDir, videoFileName),
	}, nil
}
