package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists a credential pair as a JSON blob under a single key.
// It is an optional backend for the session callbacks so that tokens survive
// process restarts and can be shared across instances.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisStore creates a store writing under the given key. A zero ttl
// means the entry never expires.
func NewRedisStore(rdb redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

// Load reads the stored credentials. A missing key yields zero credentials
// and no error.
func (s *RedisStore) Load(ctx context.Context) (Credentials, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(val), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

// Save writes the credential pair.
func (s *RedisStore) Save(ctx context.Context, creds Credentials) error {
	b, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear removes the stored pair.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Callbacks returns session callbacks that write through to the store.
// Persistence errors are reported to onErr (may be nil): the refresh flow
// must not fail because the cache is down.
func (s *RedisStore) Callbacks(ctx context.Context, onErr func(error)) Callbacks {
	report := func(err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
	return Callbacks{
		UpdateTokens: func(access, refresh string) {
			report(s.Save(ctx, Credentials{AccessToken: access, RefreshToken: refresh}))
		},
		ClearSession: func() {
			report(s.Clear(ctx))
		},
	}
}
