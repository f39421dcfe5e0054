package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-user-directory/internal/logger"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

const userPageGenerationKey = "users:page:generation"

// UserPageCacheRepository caches list pages in Redis.
// Pages are keyed by a generation counter; bumping the counter
// makes every cached page unreachable, and stale keys expire on their own.
type UserPageCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached pages
}

// NewUserPageCacheRepository creates a new repository instance with the given TTL
func NewUserPageCacheRepository(client *redis.Client, expiration time.Duration) *UserPageCacheRepository {
	return &UserPageCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userPageKey(generation int64, params models.ListParams) string {
	return fmt.Sprintf("users:page:%d:%d:%d:%q", generation, params.Page, params.Limit, params.Search)
}

// Generation returns the current cache generation, zero if none was set yet.
func (r *UserPageCacheRepository) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, userPageGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		logger.Log.Infow("cache", "key", userPageGenerationKey, "error", err)
		return 0, err
	}
	return gen, nil
}

// Get returns a cached page, or nil if it is not cached for the generation.
func (r *UserPageCacheRepository) Get(ctx context.Context, generation int64, params models.ListParams) (*models.UserPage, error) {
	key := userPageKey(generation, params)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Log.Infow("cache", "key", key, "result", "miss")
		return nil, nil
	}
	if err != nil {
		logger.Log.Infow("cache", "key", key, "error", err)
		return nil, err
	}

	var page models.UserPage
	if err := json.Unmarshal(val, &page); err != nil {
		logger.Log.Infow("cache", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Infow("cache", "key", key, "result", "hit")
	return &page, nil
}

// Set caches a page under the given generation with expiration
func (r *UserPageCacheRepository) Set(ctx context.Context, generation int64, params models.ListParams, page *models.UserPage) error {
	key := userPageKey(generation, params)

	val, err := json.Marshal(page)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, val, r.exp).Err()
	logger.Log.Infow("cache", "key", key, "result", "set", "error", err)

	return err
}

// Invalidate bumps the generation so previously cached pages are no longer served.
func (r *UserPageCacheRepository) Invalidate(ctx context.Context) error {
	gen, err := r.client.Incr(ctx, userPageGenerationKey).Result()
	logger.Log.Infow("cache", "key", userPageGenerationKey, "result", gen, "error", err)
	return err
}
