package store

import (
	"context"
	"time"

	"github.com/lojasmm/embedkit/internal/draft"
)

// DefaultTTL is how long a session lives after creation. Updates do not extend it.
const DefaultTTL = 7 * 24 * time.Hour

// Prompt is the single outstanding free-text prompt of a session.
type Prompt struct {
	Token     string    `json:"token"`
	Action    string    `json:"action"`
	ChannelID string    `json:"channel_id"`
	StartedAt time.Time `json:"started_at"`
}

// Session pairs an owner with their draft snapshot and its expiry.
type Session struct {
	OwnerID   string      `json:"owner_id"`
	Draft     draft.Draft `json:"draft"`
	Pending   *Prompt     `json:"pending,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewSession starts a session at now that expires after ttl.
func NewSession(d draft.Draft, now time.Time, ttl time.Duration) Session {
	return Session{
		OwnerID:   d.OwnerID,
		Draft:     d,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store keeps exactly one session per owner.
// Get returns (nil, nil) when no live session exists.
type Store interface {
	Get(ctx context.Context, ownerID string) (*Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, ownerID string) error
	Close() error
}

// Purger is implemented by stores that need expired sessions reaped periodically.
type Purger interface {
	Purge(ctx context.Context, now time.Time) (int, error)
}
