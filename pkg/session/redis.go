package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares sessions and OAuth state between server instances.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client; keys are prefixed with "stacknotes:session:".
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "stacknotes:session:"}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	if ValidateID(sessionID) != nil {
		return nil, nil
	}
	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	if err := ValidateID(sess.ID); err != nil {
		return err
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}

// Cleanup is a no-op; Redis expires keys itself.
func (s *RedisStore) Cleanup(context.Context) error { return nil }

func (s *RedisStore) Generate(ctx context.Context, data string, ttl time.Duration) (string, error) {
	state, err := GenerateID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.prefix+"state:"+state, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Consume(ctx context.Context, state string) (string, error) {
	if ValidateID(state) != nil {
		return "", ErrInvalidState
	}
	data, err := s.client.GetDel(ctx, s.prefix+"state:"+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", fmt.Errorf("consume state: %w", err)
	}
	return data, nil
}

var (
	_ Store      = (*RedisStore)(nil)
	_ StateStore = (*RedisStore)(nil)
)
