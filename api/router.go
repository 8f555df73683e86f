package api

import (
	"github.com/toolpilot-ai/toolpilot/api/handlers"
	"github.com/toolpilot-ai/toolpilot/api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置API路由
func SetupRouter(router *gin.Engine, env *handlers.Env) {
	router.Use(cors.Default())

	// 公共API
	public := router.Group("/api")
	{
		// 认证相关
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/register", handlers.Register)
	}

	// 需要认证的API
	authorized := router.Group("/api")
	authorized.Use(middleware.Auth())
	{
		// 用户相关
		authorized.GET("/user", handlers.GetCurrentUser)
		authorized.POST("/auth/logout", handlers.Logout)

		// 画像相关
		authorized.GET("/profile", handlers.GetProfile)
		authorized.PUT("/profile", handlers.UpsertProfile)

		// 工具目录
		authorized.GET("/tools", handlers.ListTools)
		authorized.GET("/tools/:toolId", handlers.GetTool)

		// 推荐相关
		authorized.GET("/recommendations", env.ListRecommendations)
		authorized.POST("/recommendations/generate", env.GenerateRecommendations)
		authorized.POST("/recommendations/:toolId/feedback", env.RecordFeedback)

		// 活动与统计
		authorized.POST("/activity", env.RecordActivity)
		authorized.GET("/stats", env.GetStats)

		// 等级与成就
		authorized.GET("/levels", env.ListLevels)
		authorized.GET("/achievements", env.ListAchievements)
	}
}
