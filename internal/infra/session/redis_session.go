package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cartapp/internal/domain/model"
)

// RedisSessionStore はゲストカートのマッピングを
// セッションIDごとに1キーのJSONで保持する。TTLはセッション寿命。
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// キーが無ければ空のマッピングを返す
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (map[int64]model.CartLine, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return map[int64]model.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var mapping map[int64]model.CartLine
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("unmarshal guest cart: %w", err)
	}
	if mapping == nil {
		mapping = map[int64]model.CartLine{}
	}

	return mapping, nil
}

// 書き込みのたびにTTLを貼り直す（アクティブなセッションは生き続ける）
func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, mapping map[int64]model.CartLine) error {
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (s *RedisSessionStore) Forget(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
