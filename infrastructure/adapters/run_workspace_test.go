package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunWorkspace_CreateRunDir(t *testing.T) {
	root := t.TempDir()
	workspace := NewRunWorkspace(root, NewZerologWrapper()).(*runWorkspace)
	workspace.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	paths, err := workspace.CreateRunDir("The future of AI?")
	if err != nil {
		t.Fatal("Failed to create run directory:", err)
	}

	wantDir := filepath.Join(root, "20260314_150926_The future of AI")
	if paths.RootDir != wantDir {
		t.Fatalf("Unexpected run directory %q, want %q", paths.RootDir, wantDir)
	}

	info, err := os.Stat(paths.FramesDir)
	if err != nil || !info.IsDir() {
		t.Fatal("Frames directory was not created:", err)
	}

	if !strings.HasSuffix(paths.NarrationFile, "narration.mp3") {
		t.Fatal("Unexpected narration path:", paths.NarrationFile)
	}
	if !strings.HasSuffix(paths.VideoFile, "final_video.mp4") {
		t.Fatal("Unexpected video path:", paths.VideoFile)
	}
}
