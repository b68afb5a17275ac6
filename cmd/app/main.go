// @title           quill-post API
// @version         1.0
// @description     Small blog publishing service: slugged posts, a daily post quota and a redis-backed page cache.

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
package main

import (
	"quill-post/internal/app"
	"quill-post/pkg/cache"
	"quill-post/pkg/config"
	"quill-post/pkg/database"
	"quill-post/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis: %v", err)
		panic(err)
	}

	app.Run(cfg, log, db, redisClient)
}
