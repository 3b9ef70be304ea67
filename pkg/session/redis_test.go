package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "session:tokens", ttl), mr
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	// empty store loads zero credentials
	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)

	want := Credentials{AccessToken: "A1", RefreshToken: "R1"}
	require.NoError(t, store.Save(ctx, want))

	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, creds)

	require.NoError(t, store.Clear(ctx))
	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Credentials{AccessToken: "A1", RefreshToken: "R1"}))

	mr.FastForward(2 * time.Minute)

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds, "expired entry loads as zero credentials")
}

func TestRedisStore_CallbacksWriteThrough(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	var errs []error
	cb := store.Callbacks(ctx, func(err error) { errs = append(errs, err) })

	sess := New(Credentials{AccessToken: "A1", RefreshToken: "R1"}, cb)
	sess.Update("A2", "R2")

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "A2", RefreshToken: "R2"}, creds)

	sess.Clear()
	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
	assert.Empty(t, errs)
}
