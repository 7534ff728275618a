package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ian97531/boombox/internal/api/v1/handlers"
	"github.com/ian97531/boombox/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptHandler := handlers.NewTranscriptHandler(container.TranscriptService)
	transcripts := router.Group("/transcripts")
	{
		transcripts.POST("/merge", transcriptHandler.Merge)
		transcripts.POST("/stitch", transcriptHandler.Stitch)
	}
	router.POST("/normalize/:provider", transcriptHandler.Normalize)
	router.POST("/statements", transcriptHandler.Statements)

	// Episode routes need a repository
	if container.EpisodeService != nil {
		episodeHandler := handlers.NewEpisodeHandler(container.EpisodeService)
		episodes := router.Group("/episodes")
		{
			episodes.GET("", episodeHandler.List)
			episodes.POST("", episodeHandler.Process)
			episodes.GET("/:key", episodeHandler.Get)
			episodes.GET("/:key/statements", episodeHandler.Statements)
		}
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptService services.TranscriptService
	EpisodeService    services.EpisodeService
}
