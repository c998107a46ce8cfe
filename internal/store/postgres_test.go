package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/draft"
)

func setupTestPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresStore(t *testing.T) {
	s := setupTestPostgres(t)
	exerciseStore(t, s, time.Now())
}

func TestPostgresStore_Purge(t *testing.T) {
	ctx := context.Background()
	s := setupTestPostgres(t)
	now := time.Now().UTC()

	require.NoError(t, s.Save(ctx, NewSession(draft.New("pg-old"), now.Add(-2*time.Hour), time.Hour)))
	require.NoError(t, s.Save(ctx, NewSession(draft.New("pg-fresh"), now, time.Hour)))
	t.Cleanup(func() { s.Delete(ctx, "pg-fresh") })

	got, err := s.Get(ctx, "pg-old")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.Purge(ctx, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	got, err = s.Get(ctx, "pg-fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
