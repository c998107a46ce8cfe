package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/draft"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	t.Cleanup(func() { s.Close() })
	return mr, s
}

func TestRedisStore(t *testing.T) {
	_, s := setupTestRedis(t)
	exerciseStore(t, s, time.Now())
}

func TestRedisStore_TTLFromExpiresAt(t *testing.T) {
	ctx := context.Background()
	mr, s := setupTestRedis(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess := NewSession(draft.New("a"), now, DefaultTTL)
	require.NoError(t, s.Save(ctx, sess))
	assert.Equal(t, DefaultTTL, mr.TTL(sessionKeyPrefix+"a"))

	// a later save must not push expiry out
	now = now.Add(24 * time.Hour)
	require.NoError(t, s.Save(ctx, sess))
	assert.Equal(t, DefaultTTL-24*time.Hour, mr.TTL(sessionKeyPrefix+"a"))

	mr.FastForward(DefaultTTL)
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_SaveExpiredDeletes(t *testing.T) {
	ctx := context.Background()
	mr, s := setupTestRedis(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now }
	require.NoError(t, s.Save(ctx, NewSession(draft.New("a"), now, time.Hour)))
	require.True(t, mr.Exists(sessionKeyPrefix+"a"))

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	require.NoError(t, s.Save(ctx, NewSession(draft.New("a"), now, time.Hour)))
	assert.False(t, mr.Exists(sessionKeyPrefix+"a"))
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStoreFromURL(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer s.Close()

	_, err = NewRedisStoreFromURL(context.Background(), "not a url")
	assert.Error(t, err)
}
