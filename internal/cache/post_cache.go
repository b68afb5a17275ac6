package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quill-post/internal/entity"
	"quill-post/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a stale page or detail view can live when an
// invalidation is missed.
const DefaultTTL = time.Hour

// PostCache is a read-through cache over post details and listing pages.
// Implementations are best-effort: a cache failure falls back to the
// compute function and never fails the caller.
type PostCache interface {
	GetPost(ctx context.Context, slug string, compute func() (*entity.Post, error)) (*entity.Post, error)
	GetListing(ctx context.Context, page int, compute func() (*entity.PostPage, error)) (*entity.PostPage, error)
	InvalidatePost(ctx context.Context, slug string)
	InvalidateListings(ctx context.Context)
}

type redisPostCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisPostCache(client *redis.Client, ttl time.Duration, log *logger.Logger) PostCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisPostCache{client: client, ttl: ttl, logger: log}
}

func postKey(slug string) string    { return fmt.Sprintf("post:%s", slug) }
func listingKey(page int) string    { return fmt.Sprintf("listing:%d", page) }
const listingKeyPattern = "listing:*"

func (c *redisPostCache) GetPost(ctx context.Context, slug string, compute func() (*entity.Post, error)) (*entity.Post, error) {
	key := postKey(slug)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var post entity.Post
		if uErr := json.Unmarshal(data, &post); uErr == nil {
			return &post, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("cache lookup failed for %s: %v", key, err)
	}

	post, err := compute()
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, post)
	return post, nil
}

func (c *redisPostCache) GetListing(ctx context.Context, page int, compute func() (*entity.PostPage, error)) (*entity.PostPage, error) {
	key := listingKey(page)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var listing entity.PostPage
		if uErr := json.Unmarshal(data, &listing); uErr == nil {
			return &listing, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("cache lookup failed for %s: %v", key, err)
	}

	listing, err := compute()
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, listing)
	return listing, nil
}

func (c *redisPostCache) InvalidatePost(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, postKey(slug)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed for %s: %v", postKey(slug), err)
	}
}

// InvalidateListings drops every cached listing page. Any write can shift
// page contents and the total count, so the whole namespace goes.
func (c *redisPostCache) InvalidateListings(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, listingKeyPattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed for %s: %v", listingKeyPattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed for listings: %v", err)
	}
}

func (c *redisPostCache) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache store failed for %s: %v", key, err)
	}
}
