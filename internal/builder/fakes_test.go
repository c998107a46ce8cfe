package builder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/draft"
	"github.com/lojasmm/embedkit/internal/session"
	"github.com/lojasmm/embedkit/internal/store"
)

type call struct {
	Kind string // reply, update, defer, edit, form
	View View
	Form Form
}

type fakeResponder struct {
	mu        sync.Mutex
	calls     []call
	updateErr error
}

func (f *fakeResponder) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeResponder) Reply(_ context.Context, v View) error {
	f.record(call{Kind: "reply", View: v})
	return nil
}

func (f *fakeResponder) Update(_ context.Context, v View) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.record(call{Kind: "update", View: v})
	return nil
}

func (f *fakeResponder) Defer(context.Context) error {
	f.record(call{Kind: "defer"})
	return nil
}

func (f *fakeResponder) Edit(_ context.Context, v View) error {
	f.record(call{Kind: "edit", View: v})
	return nil
}

func (f *fakeResponder) ShowForm(_ context.Context, form Form) error {
	f.record(call{Kind: "form", Form: form})
	return nil
}

func (f *fakeResponder) Responded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls) > 0
}

func (f *fakeResponder) last(t *testing.T) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "no response sent")
	return f.calls[len(f.calls)-1]
}

func (f *fakeResponder) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Kind
	}
	return out
}

type published struct {
	ChannelID string
	Draft     draft.Draft
	Rows      [][]PublishedButton
}

type fakePlatform struct {
	mu         sync.Mutex
	await      func(ctx context.Context) (*Message, error)
	deleted    []string
	published  []published
	publishErr error
	panicOn    bool
}

func (p *fakePlatform) AwaitMessage(ctx context.Context, _, _ string) (*Message, error) {
	if p.await == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.await(ctx)
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return nil
}

func (p *fakePlatform) Publish(_ context.Context, channelID string, d draft.Draft, rows [][]PublishedButton) error {
	if p.panicOn {
		panic("boom")
	}
	if p.publishErr != nil {
		return p.publishErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, published{ChannelID: channelID, Draft: d, Rows: rows})
	return nil
}

func answer(content string) func(context.Context) (*Message, error) {
	return func(context.Context) (*Message, error) {
		return &Message{ID: "m1", ChannelID: "chan", AuthorID: "owner", Content: content}, nil
	}
}

type fakeGenerator struct {
	data []byte
	err  error
}

func (g *fakeGenerator) Generate(context.Context, string, string) ([]byte, error) {
	return g.data, g.err
}

// countingStore counts every store access.
type countingStore struct {
	store.Store
	ops atomic.Int32
}

func (c *countingStore) Get(ctx context.Context, id string) (*store.Session, error) {
	c.ops.Add(1)
	return c.Store.Get(ctx, id)
}

func (c *countingStore) Save(ctx context.Context, s store.Session) error {
	c.ops.Add(1)
	return c.Store.Save(ctx, s)
}

func (c *countingStore) Delete(ctx context.Context, id string) error {
	c.ops.Add(1)
	return c.Store.Delete(ctx, id)
}

// saveFailStore fails the dispatcher's n-th Save calls listed in failOn
// (1-based). Every Save from failFrom onwards fails when failFrom > 0.
type saveFailStore struct {
	store.Store
	mu       sync.Mutex
	saves    int
	failOn   map[int]bool
	failFrom int
}

func (f *saveFailStore) Save(ctx context.Context, s store.Session) error {
	f.mu.Lock()
	f.saves++
	n := f.saves
	f.mu.Unlock()
	if f.failOn[n] || (f.failFrom > 0 && n >= f.failFrom) {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, s)
}

var errSend = errors.New("missing access")

type harness struct {
	d        *Dispatcher
	store    *countingStore
	platform *fakePlatform
	gen      *fakeGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:    &countingStore{Store: store.NewMemoryStore()},
		platform: &fakePlatform{},
		gen:      &fakeGenerator{},
	}
	h.d = NewDispatcher(h.store, session.NewManager(), h.platform, h.gen, Options{PromptTimeout: 50 * time.Millisecond})
	n := 0
	h.d.newToken = func() string {
		n++
		return "tok-" + string(rune('a'+n))
	}
	return h
}

var owner = Actor{UserID: "owner", ChannelID: "chan", GuildID: "guild"}

// seed stores a session for owner built from d.
func (h *harness) seed(t *testing.T, d draft.Draft) {
	t.Helper()
	require.NoError(t, h.store.Save(context.Background(), store.NewSession(d, time.Now(), store.DefaultTTL)))
}

func (h *harness) session(t *testing.T) *store.Session {
	t.Helper()
	s, err := h.store.Get(context.Background(), owner.UserID)
	require.NoError(t, err)
	return s
}
