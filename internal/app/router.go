package app

import (
	"examhall_backend/internal/config"
	"examhall_backend/internal/middleware"
	"examhall_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 考试会话
		authGroup.POST("/sessions", c.session.StartSession)
		authGroup.GET("/sessions/:id", c.session.GetSession)
		authGroup.PUT("/sessions/:id/answer", c.session.SelectAnswer)
		authGroup.POST("/sessions/:id/review", c.session.ToggleReview)
		authGroup.POST("/sessions/:id/submit", c.session.Submit)
		authGroup.DELETE("/sessions/:id", c.session.Cancel)

		// 试卷与排行榜
		authGroup.GET("/tests/:id", c.session.GetTest)
		authGroup.GET("/tests/:id/leaderboard", c.leaderboard.GetLeaderboard)

		// 成绩与回顾
		authGroup.GET("/submissions", c.results.ListSubmissions)
		authGroup.GET("/submissions/:id/review", c.results.GetReview)
	}
}
