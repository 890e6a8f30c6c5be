package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"generate-video-pipeline/config"
	"generate-video-pipeline/domain"
)

// scriptedFetcher routes every request through a single handler so adapter
// tests can run without a network.
type scriptedFetcher struct {
	handle func(req *http.Request) ([]byte, error)
}

func (f *scriptedFetcher) FetchContent(req *http.Request) ([]byte, error) {
	return f.handle(req)
}

func (f *scriptedFetcher) FetchStream(req *http.Request) (io.ReadCloser, error) {
	payload, err := f.handle(req)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatal("Failed to marshal test payload:", err)
	}
	return payload
}

func testReplicateConfig() *config.ReplicateConfig {
	return &config.ReplicateConfig{
		ApiUrl:         "https://replicate.test/predictions",
		ApiToken:       "token-1",
		ModelVersion:   config.DefaultDiffusionVersion,
		Width:          1024,
		Height:         576,
		GuidanceScale:  7.5,
		InferenceSteps: 50,
		Scheduler:      "K_EULER",
		NegativePrompt: "blurry, low quality, distorted",
		PollInterval:   time.Millisecond,
	}
}

func TestReplicateFrameRenderer_PollsUntilSucceeded(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "frame_0.png")
	imageBytes := []byte("png-payload")
	pollURL := "https://replicate.test/predictions/p1"
	imageURL := "https://replicate.test/output/p1.png"

	polls := 0
	fetcher := &scriptedFetcher{handle: func(req *http.Request) ([]byte, error) {
		switch {
		case req.Method == http.MethodPost:
			if auth := req.Header.Get("Authorization"); auth != "Token token-1" {
				t.Fatal("Unexpected authorization header:", auth)
			}
			var created predictionRequest
			if err := json.NewDecoder(req.Body).Decode(&created); err != nil {
				t.Fatal("Failed to decode prediction request:", err)
			}
			if created.Input.Prompt != "a kelp forest" {
				t.Fatal("Unexpected prompt:", created.Input.Prompt)
			}
			if created.Version != config.DefaultDiffusionVersion {
				t.Fatal("Unexpected model version:", created.Version)
			}
			res := predictionResponse{ID: "p1", Status: "starting"}
			res.URLs.Get = pollURL
			return mustMarshal(t, res), nil
		case req.URL.String() == pollURL:
			polls++
			res := predictionResponse{ID: "p1", Status: "processing"}
			res.URLs.Get = pollURL
			if polls >= 2 {
				res.Status = "succeeded"
				res.Output = []string{imageURL}
			}
			return mustMarshal(t, res), nil
		case req.URL.String() == imageURL:
			return imageBytes, nil
		}
		t.Fatal("Unexpected request:", req.Method, req.URL.String())
		return nil, nil
	}}

	renderer := NewReplicateFrameRenderer(fetcher, testReplicateConfig(), NewZerologWrapper())

	prompt := domain.ScenePrompt{ID: "s0", Text: "a kelp forest", Ordinal: 0}
	if err := renderer.Render(context.Background(), prompt, outputFile); err != nil {
		t.Fatal("Render failed:", err)
	}
	if polls != 2 {
		t.Fatal("Expected two poll requests, got:", polls)
	}

	written, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal("Frame file not written:", err)
	}
	if !bytes.Equal(written, imageBytes) {
		t.Fatal("Frame file content does not match the downloaded image")
	}
}

func TestReplicateFrameRenderer_FailedPrediction(t *testing.T) {
	pollURL := "https://replicate.test/predictions/p2"

	fetcher := &scriptedFetcher{handle: func(req *http.Request) ([]byte, error) {
		if req.Method == http.MethodPost {
			res := predictionResponse{ID: "p2", Status: "starting"}
			res.URLs.Get = pollURL
			return mustMarshal(t, res), nil
		}
		res := predictionResponse{ID: "p2", Status: "failed", Error: "model crashed"}
		return mustMarshal(t, res), nil
	}}

	renderer := NewReplicateFrameRenderer(fetcher, testReplicateConfig(), NewZerologWrapper())

	err := renderer.Render(context.Background(), domain.ScenePrompt{Text: "a storm"}, filepath.Join(t.TempDir(), "frame_0.png"))
	if err == nil {
		t.Fatal("Expected an error for a failed prediction")
	}
	if !strings.Contains(err.Error(), "failed") || !strings.Contains(err.Error(), "model crashed") {
		t.Fatal("Error should carry the prediction status and reason, got:", err)
	}
}

func TestReplicateFrameRenderer_EmptyOutput(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "frame_0.png")

	fetcher := &scriptedFetcher{handle: func(req *http.Request) ([]byte, error) {
		res := predictionResponse{ID: "p3", Status: "succeeded"}
		return mustMarshal(t, res), nil
	}}

	renderer := NewReplicateFrameRenderer(fetcher, testReplicateConfig(), NewZerologWrapper())

	err := renderer.Render(context.Background(), domain.ScenePrompt{Text: "a desert"}, outputFile)
	if err == nil {
		t.Fatal("Expected an error when the prediction produced no output")
	}
	if _, statErr := os.Stat(outputFile); !os.IsNotExist(statErr) {
		t.Fatal("No frame file should be written for an empty prediction output")
	}
}

func TestReplicateFrameRenderer_CanceledContextStopsPolling(t *testing.T) {
	pollURL := "https://replicate.test/predictions/p4"

	fetcher := &scriptedFetcher{handle: func(req *http.Request) ([]byte, error) {
		res := predictionResponse{ID: "p4", Status: "processing"}
		res.URLs.Get = pollURL
		return mustMarshal(t, res), nil
	}}

	renderer := NewReplicateFrameRenderer(fetcher, testReplicateConfig(), NewZerologWrapper())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := renderer.Render(ctx, domain.ScenePrompt{Text: "a glacier"}, filepath.Join(t.TempDir(), "frame_0.png"))
	if err != context.Canceled {
		t.Fatal("Expected context.Canceled, got:", err)
	}
}
