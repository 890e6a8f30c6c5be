package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"generate-video-pipeline/application/ports/inbound"
	"generate-video-pipeline/domain"
	"generate-video-pipeline/infrastructure/adapters"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

type stubRenderer struct {
	mu       sync.Mutex
	rendered []int
	failOn   int
}

func (r *stubRenderer) Render(_ context.Context, prompt domain.ScenePrompt, _ string) error {
	if r.failOn == prompt.Ordinal {
		return fmt.Errorf("render failed for ordinal %d", prompt.Ordinal)
	}
	// Later ordinals finish first to exercise the reordering.
	time.Sleep(time.Duration(10-prompt.Ordinal) * time.Millisecond)
	r.mu.Lock()
	r.rendered = append(r.rendered, prompt.Ordinal)
	r.mu.Unlock()
	return nil
}

func scenePrompts(n int) []domain.ScenePrompt {
	prompts := make([]domain.ScenePrompt, 0, n)
	for i := 0; i < n; i++ {
		prompts = append(prompts, domain.ScenePrompt{
			ID:      uuid.NewString(),
			Text:    fmt.Sprintf("scene %d", i),
			Ordinal: i,
		})
	}
	return prompts
}

func TestFrameGenerator_PreservesSceneOrder(t *testing.T) {
	workerPool, err := ants.NewPool(10)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	logger := adapters.NewZerologWrapper()
	renderer := &stubRenderer{failOn: -1}
	generator := NewFrameGenerator(logger, renderer, workerPool)

	frames, err := generator.Generate(context.Background(), inbound.GenerateFramesParams{
		Scenes:    scenePrompts(5),
		FramesDir: t.TempDir(),
	})
	if err != nil {
		t.Fatal("Failed to generate frames:", err)
	}

	if len(frames) != 5 {
		t.Fatalf("Expected 5 frames, got %d", len(frames))
	}
	for i, frame := range frames {
		if frame.Ordinal != i {
			t.Fatalf("Frame at position %d has ordinal %d", i, frame.Ordinal)
		}
	}
}

func TestFrameGenerator_FailsWhenAnyRenderFails(t *testing.T) {
	workerPool, err := ants.NewPool(10)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	logger := adapters.NewZerologWrapper()
	renderer := &stubRenderer{failOn: 2}
	generator := NewFrameGenerator(logger, renderer, workerPool)

	_, err = generator.Generate(context.Background(), inbound.GenerateFramesParams{
		Scenes:    scenePrompts(4),
		FramesDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("Expected an error when a render fails")
	}
}

func TestFrameGenerator_RejectsEmptySceneList(t *testing.T) {
	workerPool, err := ants.NewPool(10)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	logger := adapters.NewZerologWrapper()
	generator := NewFrameGenerator(logger, &stubRenderer{failOn: -1}, workerPool)

	_, err = generator.Generate(context.Background(), inbound.GenerateFramesParams{
		Scenes:    nil,
		FramesDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("Expected an error for an empty scene list")
	}
}
