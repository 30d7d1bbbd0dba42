// Package cache keeps hot item rows in redis so catalog reads skip the
// database. Every failure path degrades to a cache miss; the store stays
// authoritative.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewRedisClient builds a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewItemCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *ItemCache {
	return &ItemCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func itemKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

func (c *ItemCache) GetItem(ctx context.Context, id int64) (*models.Item, bool) {
	val, err := c.client.Get(ctx, itemKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Int64("item_id", id).Msg("item cache read failed, treating as miss")
		return nil, false
	}

	var item models.Item
	if err := json.Unmarshal([]byte(val), &item); err != nil {
		c.logger.Warn().Err(err).Int64("item_id", id).Msg("item cache entry corrupt, dropping")
		c.InvalidateItem(ctx, id)
		return nil, false
	}

	return &item, true
}

// SetItem stores the persisted part of an item. Read-time enrichment
// (last/next booking, comments) is per-requester and must never be cached.
func (c *ItemCache) SetItem(ctx context.Context, item *models.Item) {
	bare := *item
	bare.LastBooking = nil
	bare.NextBooking = nil
	bare.Comments = nil

	data, err := json.Marshal(&bare)
	if err != nil {
		c.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("item cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, itemKey(item.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("item cache write failed")
	}
}

func (c *ItemCache) InvalidateItem(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, itemKey(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("item_id", id).Msg("item cache invalidation failed")
	}
}
