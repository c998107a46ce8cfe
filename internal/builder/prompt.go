package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lojasmm/embedkit/internal/draft"
	"github.com/lojasmm/embedkit/internal/store"
)

// promptFlow records a pending prompt, waits for the owner's next message in
// the channel and applies it to the draft. The owner lock is only held while
// reading and writing the session, never across the wait.
func (d *Dispatcher) promptFlow(ctx context.Context, e Select, spec actionSpec, r Responder) error {
	token := d.newToken()

	var sess *store.Session
	err := d.locks.WithLock(e.Owner, func() error {
		s, err := d.store.Get(ctx, e.Owner)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if s == nil {
			return errSessionMissing
		}
		now := d.now()
		if p := s.Pending; p != nil && now.Sub(p.StartedAt) < d.promptTimeout {
			return errPromptPending
		}
		s.Pending = &store.Prompt{
			Token:     token,
			Action:    string(spec.Action),
			ChannelID: e.ChannelID,
			StartedAt: now,
		}
		if err := d.store.Save(ctx, *s); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		sess = s
		return nil
	})
	if isUserError(err) {
		return d.fail(ctx, r, err)
	}
	if err != nil {
		return err
	}

	preview := sess.Draft.Clone()
	if err := r.Update(ctx, View{Content: spec.Prompt, Preview: &preview, OwnerID: e.Owner}); err != nil {
		d.clearPending(ctx, e.Owner, token)
		return fmt.Errorf("showing prompt: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, d.promptTimeout)
	msg, err := d.platform.AwaitMessage(waitCtx, e.ChannelID, e.UserID)
	cancel()
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("builder: waiting for %s in %s: %v", e.UserID, e.ChannelID, err)
		}
		cur := d.clearPending(ctx, e.Owner, token)
		return r.Edit(ctx, restored(cur, msgTimeout))
	}

	var (
		cur      *store.Session
		stale    bool
		applyErr error
	)
	err = d.locks.WithLock(e.Owner, func() error {
		s, err := d.store.Get(ctx, e.Owner)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if s == nil {
			return errSessionMissing
		}
		cur = s
		if s.Pending == nil || s.Pending.Token != token {
			stale = true
			return nil
		}

		s.Pending = nil
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			applyErr = draft.NewError(draft.ErrInvalidInput, "Mensagem vazia", nil)
		} else if next, err := spec.apply(s.Draft, text); err != nil {
			applyErr = err
		} else {
			s.Draft = next
		}
		if err := d.store.Save(ctx, *s); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		return nil
	})
	if isUserError(err) {
		d.deleteMessage(ctx, msg)
		return r.Edit(ctx, notice(errorText(err)))
	}
	if err != nil {
		// The prompt view is already on screen, so the generic guard in
		// Handle cannot answer anymore.
		log.Printf("builder: applying answer of %s: %v", e.Owner, err)
		d.deleteMessage(ctx, msg)
		return r.Edit(ctx, restored(d.clearPending(ctx, e.Owner, token), msgInternalError))
	}
	if stale {
		log.Printf("builder: prompt %s of %s is no longer active", token, e.Owner)
		return r.Edit(ctx, panel(cur, msgPromptReplaced))
	}

	d.deleteMessage(ctx, msg)
	if applyErr != nil {
		if !isUserError(applyErr) {
			log.Printf("builder: applying answer of %s: %v", e.Owner, applyErr)
			return r.Edit(ctx, panel(cur, msgInternalError))
		}
		return r.Edit(ctx, panel(cur, errorText(applyErr)))
	}
	return r.Edit(ctx, panel(cur, msgUpdated))
}

// clearPending drops the pending prompt if it is still the one identified by
// token and returns the current session, nil if there is none.
func (d *Dispatcher) clearPending(ctx context.Context, owner, token string) *store.Session {
	var cur *store.Session
	err := d.locks.WithLock(owner, func() error {
		s, err := d.store.Get(ctx, owner)
		if err != nil || s == nil {
			return err
		}
		cur = s
		if s.Pending == nil || s.Pending.Token != token {
			return nil
		}
		s.Pending = nil
		return d.store.Save(ctx, *s)
	})
	if err != nil {
		log.Printf("builder: clearing prompt of %s: %v", owner, err)
	}
	return cur
}

// deleteMessage removes the consumed answer. Failures are only logged.
func (d *Dispatcher) deleteMessage(ctx context.Context, msg *Message) {
	if err := d.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		log.Printf("builder: deleting message %s: %v", msg.ID, err)
	}
}

func restored(sess *store.Session, content string) View {
	if sess == nil {
		return View{Content: content}
	}
	return panel(sess, content)
}
