package services

import (
	"context"
	"fmt"
	"time"

	"generate-video-pipeline/application/ports/inbound"
	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/domain"
	"github.com/google/uuid"
)

// videoPipeline drives the four stages in order: script generation, speech
// synthesis, frame generation, video assembly. Stages never overlap and the
// first failure aborts the run.
type videoPipeline struct {
	logger          outbound.LoggerPort
	workspace       outbound.RunWorkspacePort
	scriptGenerator outbound.ScriptGeneratorPort
	runStore        outbound.RunStorePort
	synthesizer     outbound.SpeechSynthesizerPort
	frameGenerator  inbound.FrameGeneratorPort
	assembler       outbound.VideoAssemblerPort
	publisher       outbound.VideoPublisherPort
}

func NewVideoPipeline(
	logger outbound.LoggerPort,
	workspace outbound.RunWorkspacePort,
	scriptGenerator outbound.ScriptGeneratorPort,
	runStore outbound.RunStorePort,
	synthesizer outbound.SpeechSynthesizerPort,
	frameGenerator inbound.FrameGeneratorPort,
	assembler outbound.VideoAssemblerPort,
	publisher outbound.VideoPublisherPort) inbound.VideoPipelinePort {
	return &videoPipeline{
		logger:          logger,
		workspace:       workspace,
		scriptGenerator: scriptGenerator,
		runStore:        runStore,
		synthesizer:     synthesizer,
		frameGenerator:  frameGenerator,
		assembler:       assembler,
		publisher:       publisher,
	}
}

func (p *videoPipeline) Run(ctx context.Context, params inbound.StartRunParams) (*inbound.RunResult, error) {
	if params.Topic == "" {
		return nil, fmt.Errorf("pipeline: topic must not be empty")
	}
	runID := params.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.logger.InfoWithFields("Starting video generation", map[string]interface{}{
		"run_id": runID,
		"topic":  params.Topic,
	})

	paths, err := p.workspace.CreateRunDir(params.Topic)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Generating script...")
	scriptPackage, err := p.scriptGenerator.Generate(newCtx, params.Topic)
	if err != nil {
		return nil, err
	}
	p.logger.DebugWithFields("Script generated", map[string]interface{}{
		"chars":  len(scriptPackage.Script),
		"scenes": len(scriptPackage.Scenes),
	})

	err = p.runStore.Save(newCtx, domain.RunRecord{
		RunID:     runID,
		Topic:     params.Topic,
		Script:    scriptPackage.Script,
		Scenes:    scriptPackage.Scenes,
		OutputDir: paths.RootDir,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Generating audio...")
	narration, err := p.synthesizer.Synthesize(newCtx, outbound.SynthesizeSpeechRequest{
		Text:       scriptPackage.Script,
		OutputFile: paths.NarrationFile,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Generating video frames...")
	frames, err := p.frameGenerator.Generate(newCtx, inbound.GenerateFramesParams{
		Scenes:    scriptPackage.Scenes,
		FramesDir: paths.FramesDir,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Creating final video...")
	artifact, err := p.assembler.Assemble(outbound.AssembleVideoRequest{
		Narration:  *narration,
		Frames:     frames,
		OutputFile: paths.VideoFile,
	})
	if err != nil {
		return nil, err
	}

	published, err := p.publisher.Publish(newCtx, outbound.PublishVideoRequest{
		VideoFileName: artifact.FileName,
		RunID:         runID,
		Topic:         params.Topic,
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("Video generated successfully", map[string]interface{}{
		"run_id":   runID,
		"location": published.Location,
	})

	return &inbound.RunResult{
		RunID:         runID,
		VideoFileName: artifact.FileName,
		Location:      published.Location,
		Duration:      artifact.Duration,
		FrameCount:    len(frames),
	}, nil
}
