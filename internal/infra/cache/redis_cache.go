package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"
)

// RedisCartCache は永続カートの表示用リストをTTL付きで載せる。
// Setは上書きで、並行再計算は後勝ち。
type RedisCartCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCartCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCartCache {
	return &RedisCartCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisCartCache) key(userID int64) string {
	return c.prefix + strconv.FormatInt(userID, 10)
}

func (c *RedisCartCache) Get(ctx context.Context, userID int64) ([]model.CartLine, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		cacheMisses.Inc()
		return nil, repo.ErrCacheMiss
	}
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// 壊れたエントリは捨ててミス扱い
		cacheErrors.WithLabelValues("get").Inc()
		_ = c.Forget(ctx, userID)
		return nil, repo.ErrCacheMiss
	}

	cacheHits.Inc()
	return lines, nil
}

func (c *RedisCartCache) Set(ctx context.Context, userID int64, lines []model.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cart lines: %w", err)
	}

	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (c *RedisCartCache) Forget(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		cacheErrors.WithLabelValues("forget").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
