package adapters

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
)

const runRecordFileName = "project_info.json"

type runInfoFile struct {
	RunID     string   `json:"run_id"`
	Topic     string   `json:"topic"`
	Timestamp string   `json:"timestamp"`
	Script    string   `json:"script"`
	Scenes    []string `json:"scenes"`
}

// localRunStore writes the run record next to the run's artifacts.
type localRunStore struct {
	logger outbound.LoggerPort
}

func NewLocalRunStore(logger outbound.LoggerPort) outbound.RunStorePort {
	return &localRunStore{
		logger: logger,
	}
}

func (s *localRunStore) Save(_ context.Context, record domain.RunRecord) error {
	scenes := make([]string, 0, len(record.Scenes))
	for _, scene := range record.Scenes {
		scenes = append(scenes, scene.Text)
	}

	info := runInfoFile{
		RunID:     record.RunID,
		Topic:     record.Topic,
		Timestamp: record.CreatedAt.Format(time.RFC3339),
		Script:    record.Script,
		Scenes:    scenes,
	}

	payload, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		s.logger.Error(err, "Failed to marshal run record")
		return err
	}

	infoPath := filepath.Join(record.OutputDir, runRecordFileName)
	if err := os.WriteFile(infoPath, payload, 0o644); err != nil {
		s.logger.Error(err, "Failed to write run record")
		return err
	}

	s.logger.DebugWithFields("Run record saved", map[string]interface{}{
		"path": infoPath,
	})

	return nil
}
