package main

import (
	"fmt"
	"os"

	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/application/services"
	"generate-video-pipeline/config"
	"generate-video-pipeline/infrastructure/adapters"
	"generate-video-pipeline/infrastructure/gin_interface/controllers"
	"generate-video-pipeline/middleware"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
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

	workerPool, err := ants.NewPool(32, ants.WithPanicHandler(panicHandler))
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

	var sess *session.Session
	needsAWS := os.Getenv("DYNAMO_TABLE_NAME") != "" || os.Getenv("BUCKET_NAME") != ""
	if needsAWS {
		sess = session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
	}

	var runStore outbound.RunStorePort
	if os.Getenv("DYNAMO_TABLE_NAME") != "" {
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}
		runStore = adapters.NewDynamoRunStore(zeroLogger, dynamodb.New(sess), dynamoConfig)
	} else {
		runStore = adapters.NewLocalRunStore(zeroLogger)
	}

	var publisher outbound.VideoPublisherPort
	if os.Getenv("BUCKET_NAME") != "" {
		s3Config, err := config.GetS3Config()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get s3 config")
		}
		s3Client := s3.New(sess, aws.NewConfig().WithRegion(s3Config.Region))
		publisher = adapters.NewS3VideoPublisher(zeroLogger, s3Client, s3Config)
	} else {
		publisher = adapters.NewLocalVideoPublisher(zeroLogger)
	}

	workspace := adapters.NewRunWorkspace(pipelineConfig.OutputRoot, zeroLogger)
	synthesizer := adapters.NewOpenAISpeechSynthesizer(fetcher, speechConfig, zeroLogger)
	frameRenderer := adapters.NewReplicateFrameRenderer(fetcher, replicateConfig, zeroLogger)
	frameGenerator := services.NewFrameGenerator(zeroLogger, frameRenderer, workerPool)
	assembler := adapters.NewFFmpegVideoAssembler(pipelineConfig.FrameRate, zeroLogger)

	pipeline := services.NewVideoPipeline(zeroLogger, workspace, scriptGenerator, runStore,
		synthesizer, frameGenerator, assembler, publisher)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies")
	}

	if jwksURL := os.Getenv("JWKS_URL"); jwksURL != "" {
		authHandler, err := middleware.NewAuthHandler(jwksURL, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler")
		}
		router.Use(authHandler.AuthMiddleware())
	}

	generateController := controllers.NewGenerateController(zeroLogger, pipeline)
	generateController.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
