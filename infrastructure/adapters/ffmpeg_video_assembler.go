package adapters

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
)

type ffmpegVideoAssembler struct {
	logger    outbound.LoggerPort
	frameRate int
}

func NewFFmpegVideoAssembler(frameRate int, logger outbound.LoggerPort) outbound.VideoAssemblerPort {
	return &ffmpegVideoAssembler{
		logger:    logger,
		frameRate: frameRate,
	}
}

// Assemble builds a slideshow video from the frame sequence with the
// narration as the audio track. Every frame is shown for an equal share of
// the audio duration. It refuses to run unless both the narration file and a
// non-empty frame sequence are present.
func (v *ffmpegVideoAssembler) Assemble(req outbound.AssembleVideoRequest) (*domain.VideoArtifact, error) {
	if err := v.checkInputs(req); err != nil {
		return nil, err
	}

	frames := make([]domain.Frame, len(req.Frames))
	copy(frames, req.Frames)
	sort.Sort(domain.FramesAscByOrdinal(frames))

	audioDuration, err := v.getMediaDuration(req.Narration.FileName)
	if err != nil {
		return nil, err
	}

	perFrame := audioDuration / float64(len(frames))

	args := v.assembleArgs(frames, perFrame, req.Narration.FileName, req.OutputFile)
	v.logger.Debug("ffmpeg " + strings.Join(args, " "))

	cmd := exec.Command("ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		v.logger.ErrorWithFields(err, "Failed to assemble video", map[string]interface{}{
			"output": string(output),
		})
		return nil, fmt.Errorf("video assembly: %w", err)
	}

	return &domain.VideoArtifact{
		FileName: req.OutputFile,
		Duration: audioDuration,
	}, nil
}

func (v *ffmpegVideoAssembler) checkInputs(req outbound.AssembleVideoRequest) error {
	if req.Narration.FileName == "" {
		return fmt.Errorf("video assembly: narration audio is missing")
	}
	info, err := os.Stat(req.Narration.FileName)
	if err != nil {
		return fmt.Errorf("video assembly: narration audio is missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("video assembly: narration audio is empty")
	}

	if len(req.Frames) == 0 {
		return fmt.Errorf("video assembly: frame sequence is empty")
	}
	for _, frame := range req.Frames {
		if _, err := os.Stat(frame.FileName); err != nil {
			return fmt.Errorf("video assembly: frame %d is missing: %w", frame.Ordinal, err)
		}
	}

	return nil
}

// assembleArgs builds the full ffmpeg argument list: one looped image input
// per frame, the narration as the final input, a scale+concat filter graph
// and libx264/aac encoding.
func (v *ffmpegVideoAssembler) assembleArgs(frames []domain.Frame, perFrameSeconds float64, audioFile string, outputFile string) []string {
	args := []string{"-y"}
	for _, frame := range frames {
		args = append(args, "-loop", "1", "-t", strconv.FormatFloat(perFrameSeconds, 'f', 3, 64), "-i", frame.FileName)
	}
	args = append(args, "-i", audioFile)

	var filters []string
	var labels []string
	for i := range frames {
		filters = append(filters, fmt.Sprintf("[%d:v]scale=1024:576:force_original_aspect_ratio=decrease,pad=1024:576:(ow-iw)/2:(oh-ih)/2,setsar=1[v%d]", i, i))
		labels = append(labels, fmt.Sprintf("[v%d]", i))
	}
	concat := fmt.Sprintf("%sconcat=n=%d:v=1:a=0,format=yuv420p[v]", strings.Join(labels, ""), len(frames))
	filterGraph := strings.Join(append(filters, concat), ";")

	args = append(args,
		"-filter_complex", filterGraph,
		"-map", "[v]",
		"-map", fmt.Sprintf("%d:a", len(frames)),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-r", strconv.Itoa(v.frameRate),
		"-movflags", "faststart",
		"-shortest",
		outputFile,
	)

	return args
}

func (v *ffmpegVideoAssembler) getMediaDuration(filePath string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)

	out, err := cmd.Output()
	if err != nil {
		v.logger.Error(err, "error getting media duration")
		return 0, fmt.Errorf("video assembly: ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		v.logger.Error(err, "error parsing media duration")
		return 0, err
	}

	return duration, nil
}
