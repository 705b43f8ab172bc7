package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reputesol/reputesol-go/internal/api/handlers"
	"github.com/reputesol/reputesol-go/internal/database"
	"github.com/reputesol/reputesol-go/internal/metrics"
	"github.com/reputesol/reputesol-go/pkg/ledger"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Ledger   string `json:"ledger"`
}

func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, ledgerClient ledger.Ledger, scoreHandler *handlers.ScoreHandler) {
	// Health check endpoint
	router.GET("/health", healthCheck(db, redis, ledgerClient))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		score := v1.Group("/score")
		{
			score.GET("/:wallet", scoreHandler.GetScore)
			score.GET("/:wallet/history", scoreHandler.GetScoreHistory)
			score.POST("/update", scoreHandler.UpdateScore)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient, ledgerClient ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
				Ledger:   "ok",
			},
		}

		// Check database health
		if db != nil {
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Database = "error"
				response.Status = "degraded"
			}
		} else {
			response.Services.Database = "disabled"
		}

		// Check Redis health
		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Redis = "error"
				response.Status = "degraded"
			}
		} else {
			response.Services.Redis = "disabled"
		}

		// Check program gateway health
		if err := ledgerClient.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Ledger = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
