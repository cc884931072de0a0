package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/db"
	"github.com/yungbote/stylecast-backend/internal/handlers"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/middleware"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/server"
	"github.com/yungbote/stylecast-backend/internal/services"
	"github.com/yungbote/stylecast-backend/internal/sse"
	"github.com/yungbote/stylecast-backend/internal/utils"
	"github.com/yungbote/stylecast-backend/internal/workerpool"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	rateLimitPerSecond := utils.GetEnvAsInt("MATCH_RATE_LIMIT_PER_SECOND", 3, log)
	poolWorkers := utils.GetEnvAsInt("MATCH_POOL_WORKERS", 4, log)
	poolQueueSize := utils.GetEnvAsInt("MATCH_POOL_QUEUE_SIZE", 100, log)
	serverPort := utils.GetEnv("SERVER_PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	memberRepo := repos.NewMemberRepo(thePG, log)
	clothingRepo := repos.NewClothingRepo(thePG, log)
	matchTaskRepo := repos.NewMatchTaskRepo(thePG, log)
	matchRecordRepo := repos.NewMatchRecordRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)

	// AI
	aiRouter, err := ai.NewRouter(log)
	if err != nil {
		log.Error("Could not init AI provider router", "error", err)
		os.Exit(1)
	}

	// Strategies
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	strategyRouter := services.NewStrategyRouter(log,
		services.NewAIStrategy(log, aiRouter),
		services.NewRuleBasedStrategy(log, rng),
	)

	// Worker pool
	pool := workerpool.NewPool(poolWorkers, poolQueueSize, log)
	pool.Start(context.Background())

	// Services
	log.Info("Setting up Services from main...")
	rateLimiter := services.NewRateLimiter(rateLimitPerSecond, log)
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	memberService := services.NewMemberService(thePG, log, memberRepo)
	clothingService := services.NewClothingService(thePG, log, clothingRepo)
	historyService := services.NewMatchHistoryService(thePG, log, memberRepo, clothingRepo, matchRecordRepo)
	processor := services.NewTaskProcessor(thePG, log, memberRepo, clothingRepo, matchTaskRepo, matchRecordRepo, strategyRouter, sseHub)
	matchTaskService := services.NewMatchTaskService(thePG, log, rateLimiter, memberRepo, clothingRepo, matchTaskRepo, matchRecordRepo, pool, processor)
	previewService := services.NewPreviewService(thePG, log, memberRepo, clothingRepo, matchTaskRepo, aiRouter)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	clothingHandler := handlers.NewClothingHandler(clothingService)
	matchHandler := handlers.NewMatchHandler(matchTaskService, previewService, sseHub)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		MemberHandler:   memberHandler,
		ClothingHandler: clothingHandler,
		MatchHandler:    matchHandler,
		HistoryHandler:  historyHandler,
	})

	log.Info("Starting server", "port", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
