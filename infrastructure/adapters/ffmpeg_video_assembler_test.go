package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
)

func newAssemblerForTest() *ffmpegVideoAssembler {
	return NewFFmpegVideoAssembler(24, NewZerologWrapper()).(*ffmpegVideoAssembler)
}

func TestAssembleArgs_FrameOrderAndTiming(t *testing.T) {
	assembler := newAssemblerForTest()

	frames := []domain.Frame{
		{FileName: "frames/frame_0.png", Ordinal: 0},
		{FileName: "frames/frame_1.png", Ordinal: 1},
		{FileName: "frames/frame_2.png", Ordinal: 2},
	}

	args := assembler.assembleArgs(frames, 2.5, "narration.mp3", "final_video.mp4")

	var inputs []string
	for i, arg := range args {
		if arg == "-i" {
			inputs = append(inputs, args[i+1])
		}
	}
	expected := []string{"frames/frame_0.png", "frames/frame_1.png", "frames/frame_2.png", "narration.mp3"}
	if len(inputs) != len(expected) {
		t.Fatalf("Expected %d inputs, got %v", len(expected), inputs)
	}
	for i, input := range expected {
		if inputs[i] != input {
			t.Fatalf("Input at position %d is %q, want %q", i, inputs[i], input)
		}
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-t 2.500") {
		t.Fatal("Per-frame duration missing from args:", joined)
	}
	if !strings.Contains(joined, "concat=n=3:v=1:a=0") {
		t.Fatal("Concat filter missing from args:", joined)
	}
	if !strings.Contains(joined, "-map 3:a") {
		t.Fatal("Audio map should reference the last input:", joined)
	}
	if args[len(args)-1] != "final_video.mp4" {
		t.Fatal("Output file must be the last argument:", args[len(args)-1])
	}
}

func TestAssemble_FailsClosedWithoutNarration(t *testing.T) {
	assembler := newAssemblerForTest()
	dir := t.TempDir()

	framePath := filepath.Join(dir, "frame_0.png")
	if err := os.WriteFile(framePath, []byte("png"), 0o644); err != nil {
		t.Fatal("Failed to write frame fixture:", err)
	}
	outputFile := filepath.Join(dir, "final_video.mp4")

	_, err := assembler.Assemble(outbound.AssembleVideoRequest{
		Narration:  domain.NarrationAsset{FileName: filepath.Join(dir, "missing.mp3")},
		Frames:     []domain.Frame{{FileName: framePath, Ordinal: 0}},
		OutputFile: outputFile,
	})
	if err == nil {
		t.Fatal("Expected an error for missing narration audio")
	}
	if _, statErr := os.Stat(outputFile); statErr == nil {
		t.Fatal("No output file may exist after a failed assembly")
	}
}

func TestAssemble_FailsClosedWithoutFrames(t *testing.T) {
	assembler := newAssemblerForTest()
	dir := t.TempDir()

	narrationPath := filepath.Join(dir, "narration.mp3")
	if err := os.WriteFile(narrationPath, []byte("mp3"), 0o644); err != nil {
		t.Fatal("Failed to write narration fixture:", err)
	}
	outputFile := filepath.Join(dir, "final_video.mp4")

	_, err := assembler.Assemble(outbound.AssembleVideoRequest{
		Narration:  domain.NarrationAsset{FileName: narrationPath},
		Frames:     nil,
		OutputFile: outputFile,
	})
	if err == nil {
		t.Fatal("Expected an error for an empty frame sequence")
	}
	if _, statErr := os.Stat(outputFile); statErr == nil {
		t.Fatal("No output file may exist after a failed assembly")
	}
}

func TestAssemble_FailsClosedWithEmptyNarration(t *testing.T) {
	assembler := newAssemblerForTest()
	dir := t.TempDir()

	narrationPath := filepath.Join(dir, "narration.mp3")
	if err := os.WriteFile(narrationPath, nil, 0o644); err != nil {
		t.Fatal("Failed to write narration fixture:", err)
	}
	framePath := filepath.Join(dir, "frame_0.png")
	if err := os.WriteFile(framePath, []byte("png"), 0o644); err != nil {
		t.Fatal("Failed to write frame fixture:", err)
	}

	_, err := assembler.Assemble(outbound.AssembleVideoRequest{
		Narration:  domain.NarrationAsset{FileName: narrationPath},
		Frames:     []domain.Frame{{FileName: framePath, Ordinal: 0}},
		OutputFile: filepath.Join(dir, "final_video.mp4"),
	})
	if err == nil {
		t.Fatal("Expected an error for empty narration audio")
	}
}
