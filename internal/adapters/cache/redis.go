// Package cache holds the account display snapshot so balance and
// subscription reads don't hit the database on every storefront render.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

const accountKeyPrefix = "account:"

type RedisAccountCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisAccountCache(cfg config.RedisConfig, logger *slog.Logger) *RedisAccountCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RedisAccountCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Ping verifies connectivity at startup.
func (c *RedisAccountCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisAccountCache) Close() error {
	return c.client.Close()
}

// Get returns the cached snapshot if present. Cache errors are logged and
// reported as a miss; the caller falls through to the repository.
func (c *RedisAccountCache) Get(ctx context.Context, id uuid.UUID) (*domain.Account, bool) {
	payload, err := c.client.Get(ctx, accountKeyPrefix+id.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("account cache read failed", "account_id", id, "error", err)
		}
		return nil, false
	}

	var account domain.Account
	if err := json.Unmarshal(payload, &account); err != nil {
		c.logger.Warn("account cache payload corrupt", "account_id", id, "error", err)
		return nil, false
	}

	return &account, true
}

func (c *RedisAccountCache) Set(ctx context.Context, account *domain.Account) {
	payload, err := json.Marshal(account)
	if err != nil {
		c.logger.Warn("account cache marshal failed", "account_id", account.ID, "error", err)
		return
	}

	if err := c.client.Set(ctx, accountKeyPrefix+account.ID.String(), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("account cache write failed", "account_id", account.ID, "error", err)
	}
}

// Invalidate drops the snapshot after a settlement changes the account.
func (c *RedisAccountCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, accountKeyPrefix+id.String()).Err(); err != nil {
		c.logger.Warn("account cache invalidation failed", "account_id", id, "error", err)
	}
}

var _ ports.AccountCache = (*RedisAccountCache)(nil)
