package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sergioberino/tedcross/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		crossval := v1.Group("/crossval")
		{
			crossval.GET("/summary", handler.GetSummary)
			crossval.GET("/matched", handler.GetMatched)
			crossval.GET("/missing", handler.GetMissing)
			crossval.GET("/stats/organizations", handler.GetOrganizationStats)
			crossval.GET("/stats/contractors", handler.GetContractorStats)
		}
	}

	return router
}
