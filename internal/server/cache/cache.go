// Package cache keeps recently read profiles in Redis as gzip-compressed
// JSON, keyed by user id. A miss is (nil, nil).
package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/redis/go-redis/v9"
)

// redisClient is the part of *redis.Client the cache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{client: rdb, ttl: cfg.TTL}
}

func Key(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*models.UserInfo, error) {
	val, err := c.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	raw, err := decompress(val)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	u := &models.UserInfo{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return u, nil
}

func encode(u *models.UserInfo) ([]byte, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	val, err := compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return val, nil
}

// Set stores u unconditionally. It is used for freshly committed revisions.
func (c *RedisCache) Set(ctx context.Context, u *models.UserInfo) error {
	val, err := encode(u)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(u.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// SetIfAbsent stores u only when no entry exists, so a read that raced a
// save cannot replace the revision the save wrote. It reports whether u
// was stored.
func (c *RedisCache) SetIfAbsent(ctx context.Context, u *models.UserInfo) (bool, error) {
	val, err := encode(u)
	if err != nil {
		return false, err
	}
	ok, err := c.client.SetNX(ctx, Key(u.ID), val, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.client.Close() }

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Nop is used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.UserInfo, error)       { return nil, nil }
func (Nop) Set(context.Context, *models.UserInfo) error                 { return nil }
func (Nop) SetIfAbsent(context.Context, *models.UserInfo) (bool, error) { return false, nil }
func (Nop) Delete(context.Context, string) error                        { return nil }
func (Nop) Close() error                                                { return nil }
