package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxAttempts     = 2
	generateTimeout = 60 * time.Second
	limiterIdleTTL  = time.Hour
)

// Backend performs one completion constrained to schema and returns raw text.
type Backend interface {
	Complete(ctx context.Context, system, prompt string, schema *ParamSchema) (string, error)
}

// Generator turns a free-text prompt into draft JSON using a Backend.
// Requests are rate limited per user.
type Generator struct {
	backend Backend
	system  string
	schema  *ParamSchema

	perMinute int
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	now       func() time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewGenerator builds a Generator. perMinute <= 0 disables rate limiting.
func NewGenerator(b Backend, emojis []Emoji, perMinute int) *Generator {
	return &Generator{
		backend:   b,
		system:    BuildSystemPrompt(emojis),
		schema:    DraftSchema(),
		perMinute: perMinute,
		limiters:  make(map[string]*userLimiter),
		now:       time.Now,
	}
}

// Generate returns JSON matching DraftSchema, ready for draft.Import.
func (g *Generator) Generate(ctx context.Context, ownerID, prompt string) ([]byte, error) {
	if !g.allow(ownerID) {
		return nil, ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		text, err := g.backend.Complete(ctx, g.system, prompt, g.schema)
		if err != nil {
			be := ClassifyError(err)
			log.Printf("ai: attempt %d for %s failed after %dms (%s): %v",
				attempt, ownerID, time.Since(start).Milliseconds(), be.Type, err)
			lastErr = be
			if !be.Retryable || ctx.Err() != nil {
				break
			}
			continue
		}

		data, err := extractJSON(text)
		if err == nil {
			err = ValidateDraft(data)
		}
		if err != nil {
			log.Printf("ai: off-schema response for %s: %v", ownerID, err)
			return nil, &BackendError{Type: ErrInvalid, Err: err}
		}
		log.Printf("ai: generated draft for %s in %dms", ownerID, time.Since(start).Milliseconds())
		return data, nil
	}
	return nil, fmt.Errorf("generating draft: %w", lastErr)
}

// Cleanup forgets limiters idle for longer than an hour.
func (g *Generator) Cleanup() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	n := 0
	for id, ul := range g.limiters {
		if now.Sub(ul.lastSeen) > limiterIdleTTL {
			delete(g.limiters, id)
			n++
		}
	}
	return n
}

func (g *Generator) allow(ownerID string) bool {
	if g.perMinute <= 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	ul, ok := g.limiters[ownerID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(g.perMinute)), g.perMinute)}
		g.limiters[ownerID] = ul
	}
	ul.lastSeen = now
	return ul.lim.AllowN(now, 1)
}

// extractJSON strips an optional markdown code fence and requires a JSON object.
func extractJSON(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		return nil, errors.New("response is not a JSON object")
	}
	data := []byte(s)
	if !json.Valid(data) {
		return nil, errors.New("response is not valid JSON")
	}
	return data, nil
}
