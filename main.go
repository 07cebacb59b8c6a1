package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractpro/config"
	"contractpro/handler"
	"contractpro/middleware"
	"contractpro/pkg/logger"
	"contractpro/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded", "path", configPath)

	// Blob storage for staged upload content: object storage when
	// configured, in-process otherwise
	var blobs service.BlobStore
	if cfg.Storage.Enabled {
		minioStore, err := service.NewMinioBlobStore(&cfg.Storage)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure storage bucket", "error", err)
			os.Exit(1)
		}
		blobs = minioStore
		slog.Info("object storage ready", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	} else {
		blobs = service.NewMemoryBlobStore()
		slog.Info("object storage disabled, staging uploads in memory")
	}

	store := service.NewContractStore(&cfg.Store)
	dashboard := service.NewDashboardController(store)

	sessions := service.NewSessionManager(cfg.Upload, nil)
	sessions.SetOnComplete(dashboard.OnUploadComplete)

	authHandler := handler.NewAuthHandler(cfg)
	contractHandler := handler.NewContractHandler(store)
	dashboardHandler := handler.NewDashboardHandler(dashboard)
	uploadHandler := handler.NewUploadHandler(sessions, blobs)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/stats", contractHandler.Stats)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.POST("/contracts", contractHandler.Create)
		protected.PUT("/contracts/:id", contractHandler.Update)
		protected.DELETE("/contracts/:id", contractHandler.Delete)

		protected.GET("/dashboard", dashboardHandler.View)
		protected.PUT("/dashboard/filters", dashboardHandler.SetFilters)
		protected.PUT("/dashboard/sort", dashboardHandler.SetSort)
		protected.PUT("/dashboard/page", dashboardHandler.SetPage)
		protected.POST("/dashboard/refresh", dashboardHandler.Refresh)

		protected.POST("/uploads", uploadHandler.CreateSession)
		protected.GET("/uploads/:id", uploadHandler.GetSession)
		protected.DELETE("/uploads/:id", uploadHandler.DeleteSession)
		protected.POST("/uploads/:id/files", uploadHandler.AddFiles)
		protected.POST("/uploads/:id/start", uploadHandler.Start)
		protected.POST("/uploads/:id/files/:fileID/retry", uploadHandler.RetryFile)
		protected.DELETE("/uploads/:id/files/:fileID", uploadHandler.RemoveFile)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers for the browser client
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
