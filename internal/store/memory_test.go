package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/draft"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s, time.Now())
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, NewSession(draft.New("a"), now, time.Hour)))
	require.NoError(t, s.Save(ctx, NewSession(draft.New("b"), now, 3*time.Hour)))

	now = now.Add(2 * time.Hour)
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, got)

	n, err := s.Purge(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d, _ := draft.New("a").AddField("n", "v")
	require.NoError(t, s.Save(ctx, NewSession(d, time.Now(), DefaultTTL)))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	got.Draft.Fields[0].Name = "changed"

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "n", again.Draft.Fields[0].Name)
}
