package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/client"
	"github.com/yourorg/poll-service/internal/config"
	"github.com/yourorg/poll-service/internal/database"
	"github.com/yourorg/poll-service/internal/events"
	"github.com/yourorg/poll-service/internal/handler"
	"github.com/yourorg/poll-service/internal/middleware"
	"github.com/yourorg/poll-service/internal/repository"
	"github.com/yourorg/poll-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize repositories
	store := repository.NewStore(db, logger)
	pollRepo := repository.NewPollRepository(db, logger)
	optionRepo := repository.NewOptionRepository(db, logger)
	tagRepo := repository.NewTagRepository(db, logger)
	voteRepo := repository.NewVoteRepository(db, logger)
	searchRepo := repository.NewSearchRepository(db, logger)

	// Initialize clients
	authClient := client.NewAuthClient(
		cfg.AuthService.URL,
		cfg.AuthService.ServiceKey,
		cfg.AuthService.Timeout,
		logger,
	)

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, "poll-service", logger)
	defer producer.Close()

	// Initialize services
	pollService := service.NewPollService(
		store,
		pollRepo,
		optionRepo,
		tagRepo,
		producer,
		cfg.Kafka.Topics["pollEvents"],
		logger,
	)
	tagService := service.NewTagService(store, pollRepo, tagRepo, logger)
	voteService := service.NewVoteService(
		store,
		optionRepo,
		voteRepo,
		producer,
		cfg.Kafka.Topics["voteEvents"],
		logger,
	)
	searchService := service.NewSearchService(pollRepo, optionRepo, tagRepo, searchRepo, logger)

	// Initialize handlers
	pollHandler := handler.NewPollHandler(pollService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	voteHandler := handler.NewVoteHandler(voteService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(
		pollHandler,
		tagHandler,
		voteHandler,
		searchHandler,
		authClient,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func setupRouter(
	pollHandler *handler.PollHandler,
	tagHandler *handler.TagHandler,
	voteHandler *handler.VoteHandler,
	searchHandler *handler.SearchHandler,
	authClient *client.AuthClient,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Poll routes
		polls := v1.Group("/polls")
		{
			// Public poll endpoints
			polls.GET("", pollHandler.ListPolls)
			polls.GET("/:id", pollHandler.GetPoll)
			polls.GET("/:id/tags", tagHandler.GetPollTags)

			// Protected poll endpoints
			polls.Use(middleware.AuthMiddleware(authClient, logger))
			polls.POST("", pollHandler.CreatePoll)
			polls.PUT("/:id", pollHandler.UpdatePoll)
			polls.DELETE("/:id", pollHandler.DeletePoll)

			polls.POST("/:id/options", pollHandler.AddOption)
			polls.DELETE("/:id/options/:optionId", pollHandler.DeleteOption)

			polls.PUT("/:id/tags", tagHandler.SetPollTags)
			polls.POST("/:id/tags", tagHandler.TagPoll)
			polls.DELETE("/:id/tags/:name", tagHandler.UntagPoll)

			polls.POST("/:id/votes", voteHandler.Vote)
		}

		// Own polls listing
		my := v1.Group("/my/polls")
		{
			my.Use(middleware.AuthMiddleware(authClient, logger))
			my.GET("", pollHandler.ListMyPolls)
		}

		// Tag routes
		tags := v1.Group("/tags")
		{
			tags.Use(middleware.AuthMiddleware(authClient, logger))
			tags.GET("", tagHandler.GetAllTags)
		}

		// Search routes
		search := v1.Group("/search")
		{
			search.GET("", searchHandler.SearchByText)
			search.GET("/by-tag", searchHandler.SearchByTag)

			mine := search.Group("/my")
			mine.Use(middleware.AuthMiddleware(authClient, logger))
			mine.GET("/by-tags", searchHandler.SearchMyPollsByTagNames)
		}
	}

	return router
}
