package collector

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// Runner executes one collection pass
type Runner interface {
	Run(ctx context.Context) (*dto.CollectorResponse, error)
}

// NewRouter exposes the health check and the fetch-and-sync trigger
func NewRouter(runner Runner, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/fetch-and-sync-data", func(ctx *gin.Context) {
		logger.Info().Msg("Collection run requested")
		resp, err := runner.Run(ctx.Request.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Error during data synchronization")
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, resp)
	})

	return router
}
