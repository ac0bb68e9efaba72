package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studybuddy/internal/adapter"
	"studybuddy/internal/adapter/groq"
	"studybuddy/internal/cache"
	"studybuddy/internal/config"
	"studybuddy/internal/database"
	"studybuddy/internal/domain"
	"studybuddy/internal/handler"
	"studybuddy/internal/logger"
	"studybuddy/internal/middleware"
	"studybuddy/internal/repository"
	"studybuddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database and apply migrations
	db, err := database.NewSQLXSqliteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db, "database/migrations"); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	historyRepository := repository.NewSQLXHistoryRepository(db)

	// Redis is optional: without an address the answer cache is disabled and
	// every answer check goes to the model.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Answer cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Info("Redis address not configured, answer cache disabled")
	}

	chatClient, err := groq.New(cfg.Groq)
	if err != nil {
		appLogger.Fatal("Failed to create chat client", zap.Error(err))
	}
	appLogger.Info("Chat client initialized",
		zap.String("base_url", cfg.Groq.BaseURL),
		zap.String("model", cfg.Groq.Model))

	// Initialize services
	answerCacheService := service.NewAnswerCacheService(cacheAdapter)
	reviewer := service.NewReviewer(chatClient, answerCacheService)
	planner := service.NewWeakTopicPlanner(historyRepository)
	worker := service.NewSessionWorker(reviewer, planner, historyRepository)

	// Initialize handlers
	reviewHandler := handler.NewReviewHandler(worker)
	historyHandler := handler.NewHistoryHandler(historyRepository)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// API routes
	apiGroup := app.Group("/api")

	reviewGroup := apiGroup.Group("/review")
	reviewGroup.Post("/session", reviewHandler.StartSession)
	reviewGroup.Post("/messages", reviewHandler.SendMessage)

	historyGroup := apiGroup.Group("/history")
	historyGroup.Get("/records", historyHandler.ListRecords)
	historyGroup.Delete("/records", historyHandler.DeleteAll)
	historyGroup.Delete("/records/:id", historyHandler.DeleteRecord)
	historyGroup.Get("/sessions", historyHandler.ListSessions)
	historyGroup.Get("/sessions/:id", historyHandler.GetSession)
	historyGroup.Delete("/sessions/:id", historyHandler.DeleteSession)

	// The session worker and the HTTP listener run until shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})
	group.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	group.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		appLogger.Fatal("Server terminated", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
