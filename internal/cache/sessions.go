package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "auth_"

// SessionStore maps opaque session tokens to user IDs in Redis, each entry
// carrying its own expiration.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(addr string) *SessionStore {
	return &SessionStore{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *SessionStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the user ID for a token, or "" when no session exists.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	return userID, nil
}

func (s *SessionStore) Del(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) IsAlive(ctx context.Context) bool {
	return s.rdb.Ping(ctx).Err() == nil
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}
