package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill-post/internal/cache"
	appHTTP "quill-post/internal/controller/http"
	"quill-post/internal/repo/persistent"
	"quill-post/internal/usecase"
	"quill-post/pkg/config"
	"quill-post/pkg/jwt"
	"quill-post/pkg/logger"
	"quill-post/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "quill-post/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Repositories
	postRepo := persistent.NewPostRepository(db)
	userRepo := persistent.NewUserRepository(db)

	// Cache
	postCache := cache.NewRedisPostCache(redisClient, cache.DefaultTTL, log)

	// Use cases
	postUseCase := usecase.NewPostUseCase(postRepo, postCache, log, time.Now)
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, log)

	// HTTP handlers
	postHandler := appHTTP.NewPostHandler(postUseCase, log)
	authHandler := appHTTP.NewAuthHandler(authUseCase)

	// Router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		// Public reads
		api.GET("/posts", postHandler.ListPosts)
		api.GET("/posts/:slug", postHandler.GetPost)

		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Authenticated writes
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		authed.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
		{
			authed.GET("/me", authHandler.Me)
			authed.POST("/posts", postHandler.CreatePost)
			authed.PUT("/posts/:slug", postHandler.UpdatePost)
			authed.DELETE("/posts/:slug", postHandler.DeletePost)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("quill-post starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("error closing database: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("error closing redis: %v", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown: %v", err)
	}

	log.Info("quill-post exited")
}
