package controllers

import (
	"context"
	"net/http"

	"generate-video-pipeline/application/ports/inbound"
	"generate-video-pipeline/application/ports/outbound"
	"generate-video-pipeline/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GenerateController interface {
	Generate(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type generateController struct {
	logger   outbound.LoggerPort
	pipeline inbound.VideoPipelinePort
}

func NewGenerateController(logger outbound.LoggerPort, pipeline inbound.VideoPipelinePort) GenerateController {
	return &generateController{
		logger:   logger,
		pipeline: pipeline,
	}
}

func (g *generateController) Generate(c *gin.Context) {
	var generateRequest dto.GenerateRequest
	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := c.ShouldBindJSON(&generateRequest); err != nil {
		err = c.AbortWithError(http.StatusBadRequest, err)
		if err != nil {
			g.logger.Error(err, "failed to abort with error")
		}
		return
	}

	runID := uuid.NewString()

	result, err := g.pipeline.Run(newCtx, inbound.StartRunParams{
		RunID: runID,
		Topic: generateRequest.Topic,
	})
	if err != nil {
		g.logger.ErrorWithFields(err, "pipeline run failed", map[string]interface{}{
			"run_id": runID,
		})
		err = c.AbortWithError(http.StatusInternalServerError, err)
		if err != nil {
			g.logger.Error(err, "failed to abort with error")
		}
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{
		RunID:      result.RunID,
		Location:   result.Location,
		Duration:   result.Duration,
		FrameCount: result.FrameCount,
	})
}

func (g *generateController) RegisterRoutes(router *gin.Engine) {
	router.POST("/generate", g.Generate)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
