package main

import (
	"context"
	"fmt"
	"time"

	"quill-post/internal/cache"
	"quill-post/internal/entity"
	"quill-post/internal/repo/persistent"
	"quill-post/internal/usecase"
	pkgcache "quill-post/pkg/cache"
	"quill-post/pkg/config"
	"quill-post/pkg/database"
	"quill-post/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a handful of demo users and posts for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := pkgcache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	ctx := context.Background()
	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)
	postCache := cache.NewRedisPostCache(redisClient, cache.DefaultTTL, log)
	posts := usecase.NewPostUseCase(postRepo, postCache, log, time.Now)

	users := []struct {
		email    string
		username string
	}{
		{"ada@example.com", "ada"},
		{"grace@example.com", "grace"},
		{"linus@example.com", "linus"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	for _, u := range users {
		if _, err := userRepo.GetByEmail(ctx, u.email); err == nil {
			log.Info("user %s already exists, skipping", u.username)
			continue
		}

		user := &entity.User{Email: u.email, Username: u.username, Password: string(hashed)}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Error("failed to seed user %s: %v", u.username, err)
			continue
		}

		for i := 1; i <= 2; i++ {
			title := fmt.Sprintf("%s's thoughts, part %d", u.username, i)
			if _, err := posts.CreatePost(ctx, user.ID, title, "Seeded content for local development."); err != nil {
				log.Error("failed to seed post for %s: %v", u.username, err)
			}
		}
		log.Info("seeded user %s with 2 posts", u.username)
	}

	log.Info("Database seeded successfully!")
}
