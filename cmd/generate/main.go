package main

import (
	"context"
	"fmt"
	"os"

	"generate-video-pipeline/application/ports/inbound"
	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/application/services"
	"generate-video-pipeline/config"
	"generate-video-pipeline/infrastructure/adapters"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

// The topic is fixed; pass a positional argument to override it.
const defaultTopic = "The future of artificial intelligence"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	topic := defaultTopic
	if len(os.Args) > 1 {
		topic = os.Args[1]
	}

	scriptConfig, err := config.GetScriptConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get script config")
	}

	speechConfig, err := config.GetSpeechConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get speech config")
	}

	replicateConfig, err := config.GetReplicateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get replicate config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(8, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	fetcher := adapters.NewContentFetcher(nil, zeroLogger)

	var scriptGenerator outbound.ScriptGeneratorPort
	if scriptConfig.Mode == config.ScriptModeStream {
		scriptGenerator = adapters.NewStreamingScriptGenerator(scriptConfig, zeroLogger)
	} else {
		scriptGenerator = adapters.NewStructuredScriptGenerator(scriptConfig, zeroLogger)
	}

	var runStore outbound.RunStorePort
	if os.Getenv("DYNAMO_TABLE_NAME") != "" {
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}
		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
		runStore = adapters.NewDynamoRunStore(zeroLogger, dynamodb.New(sess), dynamoConfig)
	} else {
		runStore = adapters.NewLocalRunStore(zeroLogger)
	}

	workspace := adapters.NewRunWorkspace(pipelineConfig.OutputRoot, zeroLogger)
	synthesizer := adapters.NewOpenAISpeechSynthesizer(fetcher, speechConfig, zeroLogger)
	frameRenderer := adapters.NewReplicateFrameRenderer(fetcher, replicateConfig, zeroLogger)
	frameGenerator := services.NewFrameGenerator(zeroLogger, frameRenderer, workerPool)
	assembler := adapters.NewFFmpegVideoAssembler(pipelineConfig.FrameRate, zeroLogger)
	publisher := adapters.NewLocalVideoPublisher(zeroLogger)

	pipeline := services.NewVideoPipeline(zeroLogger, workspace, scriptGenerator, runStore,
		synthesizer, frameGenerator, assembler, publisher)

	result, err := pipeline.Run(context.Background(), inbound.StartRunParams{Topic: topic})
	if err != nil {
		log.Fatal().Err(err).Msg("Video generation failed")
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("location", result.Location).
		Float64("duration_seconds", result.Duration).
		Int("frames", result.FrameCount).
		Msg("Video generated successfully")
}
