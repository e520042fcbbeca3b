package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "shopee:session:"

// RedisSessionStore persists shop sessions in Redis keyed by an opaque
// session id, with the TTL chosen by the caller.
type RedisSessionStore struct {
	rdb *redis.Client
}

var _ ports.SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store on an existing Redis client.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// Get returns the stored session, or (nil, nil) when the id is unknown or
// the entry has expired.
func (s *RedisSessionStore) Get(ctx context.Context, sid string) (*domain.ShopSession, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var sess domain.ShopSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sid string, sess domain.ShopSession, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sid, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
