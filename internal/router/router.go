package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/scareclub/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 推荐 API ====================
	api := r.Group("/api")
	{
		api.GET("/recommend/*title", h.Recommend)
		api.GET("/search", h.Search)
		api.GET("/movies", h.Movies)
		api.GET("/movies/info", h.MovieInfo)
		api.GET("/popular", h.Popular)
		api.GET("/stats", h.Stats)
		api.GET("/trending", h.Trending)
	}
}
