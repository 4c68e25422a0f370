package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/cache"
	"github.com/cliptube/backend/internal/config"
	"github.com/cliptube/backend/internal/database"
	"github.com/cliptube/backend/internal/handlers"
	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/metrics"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/reactions"
	"github.com/cliptube/backend/internal/storage"
	"github.com/cliptube/backend/internal/util"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Setup structured logging
	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("invalid configuration", err)
	}

	// Open the database and run migrations
	db, err := database.Open()
	if err != nil {
		logger.FatalWithFields("failed to open database", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("failed to run migrations", err)
	}

	// Redis is optional; without it view counting and channel stats fall
	// back to the database.
	var cacheClient *cache.Client
	if cfg.RedisHost != "" {
		cacheClient, err = cache.NewClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.WarnWithFields("redis unavailable, continuing without cache", err)
			cacheClient = nil
		}
	}
	defer cacheClient.Close()

	// Initialize S3 uploader for video and image files
	uploader, err := storage.NewS3Uploader(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
	if err != nil {
		logger.FatalWithFields("failed to initialize S3 uploader", err)
	}
	if err := uploader.CheckBucketAccess(context.Background()); err != nil {
		logger.WarnWithFields("S3 bucket access failed, media uploads will fail", err)
	}

	authService := auth.NewService(db, []byte(cfg.AccessTokenSecret), []byte(cfg.RefreshTokenSecret))
	reactionStore := reactions.NewStore(db)
	m := metrics.Initialize()

	h := handlers.NewHandlers(db, authService, uploader, cacheClient, reactionStore, m)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(m.GinMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.NoRoute(middleware.NoRoute())

	r.GET("/healthz", func(c *gin.Context) {
		if err := database.Health(db); err != nil {
			util.RespondInternalError(c, "database unreachable")
			return
		}
		util.Respond(c, http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		}, "OK")
	})
	r.GET("/metrics", metrics.Handler())

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.FatalWithFields("server forced to shutdown", err)
	}

	logger.Log.Info("server exited")
}
