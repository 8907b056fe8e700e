package router

import (
	"github.com/gin-gonic/gin"

	"legalsense/api/handler"
)

func RegisterRoutes(r *gin.Engine, h *handler.DocumentHandler) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		documents := api.Group("/documents")
		{
			documents.POST("/upload", h.Upload)
			documents.POST("/search", h.Search)
			documents.GET("/:id", h.Get)
			documents.DELETE("/:id", h.Delete)
		}
		analysis := api.Group("/analysis")
		{
			analysis.POST("/analyze", h.Analyze)
		}
		qa := api.Group("/qa")
		{
			qa.POST("/ask", h.Ask)
			qa.POST("/suggestions", h.Suggest)
		}
	}
}
