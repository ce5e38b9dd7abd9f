package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// DefaultRedisKey holds the map when the URL names no key.
const DefaultRedisKey = "stacknotes:notebooks"

// RedisStore keeps the JSON document under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the server in rawURL. A "key" query parameter
// selects the key; every other parameter is passed to go-redis.
func NewRedisStore(ctx context.Context, rawURL string) (*RedisStore, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	q := u.Query()
	key := q.Get("key")
	if key == "" {
		key = DefaultRedisKey
	}
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (notebookmap.Map, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return notebookmap.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return notebookmap.Decode(data)
}

func (s *RedisStore) Save(ctx context.Context, m notebookmap.Map) error {
	data, err := notebookmap.Encode(m)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) Describe() string {
	return fmt.Sprintf("redis %s key %s", s.client.Options().Addr, s.key)
}
