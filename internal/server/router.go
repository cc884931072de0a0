package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/handlers"
	"github.com/yungbote/stylecast-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	MemberHandler   *handlers.MemberHandler
	ClothingHandler *handlers.ClothingHandler
	MatchHandler    *handlers.MatchHandler
	HistoryHandler  *handlers.HistoryHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Members
	protected.POST("/members", cfg.MemberHandler.Create)
	protected.GET("/members", cfg.MemberHandler.List)
	protected.GET("/members/:memberId", cfg.MemberHandler.Get)
	protected.PUT("/members/:memberId", cfg.MemberHandler.Update)
	protected.DELETE("/members/:memberId", cfg.MemberHandler.Delete)

	// Clothing
	protected.POST("/clothing", cfg.ClothingHandler.Create)
	protected.GET("/clothing", cfg.ClothingHandler.List)
	protected.GET("/clothing/:clothingId", cfg.ClothingHandler.Get)
	protected.PUT("/clothing/:clothingId", cfg.ClothingHandler.Update)
	protected.DELETE("/clothing/:clothingId", cfg.ClothingHandler.Delete)

	// Match tasks
	protected.POST("/match/tasks", cfg.MatchHandler.CreateTask)
	protected.GET("/match/tasks", cfg.MatchHandler.ListTasks)
	protected.GET("/match/tasks/:taskId", cfg.MatchHandler.GetTask)
	protected.POST("/match/tasks/:taskId/outfits/:outfitNo/preview", cfg.MatchHandler.GeneratePreview)
	protected.GET("/match/tasks/:taskId/events", cfg.MatchHandler.StreamEvents)

	// Match history
	protected.GET("/members/:memberId/match-history", cfg.HistoryHandler.List)
	protected.POST("/members/:memberId/match-history", cfg.HistoryHandler.Create)
	protected.PATCH("/members/:memberId/match-history/:recordId/status", cfg.HistoryHandler.UpdateStatus)

	return router
}
