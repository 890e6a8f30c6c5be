package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"generate-video-pipeline/application/ports/inbound"
	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
)

type frameGenerator struct {
	logger     outbound.LoggerPort
	renderer   outbound.FrameRendererPort
	workerPool outbound.TaskDispatcher
}

func NewFrameGenerator(logger outbound.LoggerPort, renderer outbound.FrameRendererPort,
	workerPool outbound.TaskDispatcher) inbound.FrameGeneratorPort {
	return &frameGenerator{
		logger:     logger,
		renderer:   renderer,
		workerPool: workerPool,
	}
}

// Generate renders every scene prompt on the worker pool and returns the
// frames sorted by scene ordinal, so the playback order matches the scene
// order no matter which render finishes first. The first render failure
// cancels the remaining renders and fails the stage.
func (g *frameGenerator) Generate(ctx context.Context, params inbound.GenerateFramesParams) ([]domain.Frame, error) {
	if len(params.Scenes) == 0 {
		return nil, fmt.Errorf("frame generation: no scene prompts")
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan domain.Frame, len(params.Scenes))
	errCh := make(chan error, len(params.Scenes))

	var wg sync.WaitGroup
	for _, scene := range params.Scenes {
		prompt := scene
		wg.Add(1)
		err := g.workerPool.Submit(func() {
			defer wg.Done()
			outputFile := filepath.Join(params.FramesDir, fmt.Sprintf("frame_%d.png", prompt.Ordinal))

			g.logger.DebugWithFields("Rendering frame", map[string]interface{}{
				"ordinal": prompt.Ordinal,
				"prompt":  prompt.Text,
			})

			if err := g.renderer.Render(newCtx, prompt, outputFile); err != nil {
				select {
				case errCh <- err:
				case <-newCtx.Done():
				}
				cancel()
				return
			}

			out <- domain.Frame{
				PromptID: prompt.ID,
				FileName: outputFile,
				Ordinal:  prompt.Ordinal,
			}
		})
		if err != nil {
			wg.Done()
			cancel()
			return nil, err
		}
	}

	wg.Wait()
	close(out)
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	frames := make([]domain.Frame, 0, len(params.Scenes))
	for frame := range out {
		frames = append(frames, frame)
	}
	sort.Sort(domain.FramesAscByOrdinal(frames))

	return frames, nil
}
