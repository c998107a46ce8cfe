package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/draft"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store, now time.Time) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	d := draft.New("owner-1").SetTitle("Launch Day")
	d, err = d.AddField("Nome", "Valor")
	require.NoError(t, err)
	sess := NewSession(d, now, DefaultTTL)
	sess.Pending = &Prompt{Token: "tok", Action: "edit_title", ChannelID: "c1", StartedAt: now}
	require.NoError(t, s.Save(ctx, sess))

	got, err = s.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Launch Day", got.Draft.Title)
	require.Len(t, got.Draft.Fields, 1)
	assert.Equal(t, "Valor", got.Draft.Fields[0].Value)
	require.NotNil(t, got.Pending)
	assert.Equal(t, "tok", got.Pending.Token)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))

	// overwrite keeps a single session per owner
	sess.Draft = sess.Draft.SetTitle("Outro")
	sess.Pending = nil
	require.NoError(t, s.Save(ctx, sess))
	got, err = s.Get(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Outro", got.Draft.Title)
	assert.Nil(t, got.Pending)

	require.NoError(t, s.Delete(ctx, "owner-1"))
	got, err = s.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting a missing session is not an error
	require.NoError(t, s.Delete(ctx, "owner-1"))
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := NewSession(draft.New("u"), now, time.Hour)

	assert.False(t, sess.Expired(now))
	assert.False(t, sess.Expired(now.Add(59*time.Minute)))
	assert.True(t, sess.Expired(now.Add(time.Hour)))

	var zero Session
	assert.False(t, zero.Expired(now))
}
