package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lojasmm/embedkit/internal/ai"
	"github.com/lojasmm/embedkit/internal/draft"
	"github.com/lojasmm/embedkit/internal/session"
	"github.com/lojasmm/embedkit/internal/store"
)

const DefaultPromptTimeout = 180 * time.Second

type Options struct {
	SessionTTL    time.Duration // default store.DefaultTTL
	PromptTimeout time.Duration // default DefaultPromptTimeout
}

// Dispatcher runs the draft editing protocol. Each event loads the owner's
// session, applies at most one validated edit and answers with the next view.
type Dispatcher struct {
	store    store.Store
	locks    *session.Manager
	platform Platform
	gen      Generator // nil disables generation

	sessionTTL    time.Duration
	promptTimeout time.Duration
	now           func() time.Time
	newToken      func() string
}

func NewDispatcher(s store.Store, locks *session.Manager, p Platform, gen Generator, opts Options) *Dispatcher {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = store.DefaultTTL
	}
	if opts.PromptTimeout <= 0 {
		opts.PromptTimeout = DefaultPromptTimeout
	}
	return &Dispatcher{
		store:         s,
		locks:         locks,
		platform:      p,
		gen:           gen,
		sessionTTL:    opts.SessionTTL,
		promptTimeout: opts.PromptTimeout,
		now:           time.Now,
		newToken:      uuid.NewString,
	}
}

// Handle processes one event. Panics and infrastructure errors end in a
// generic error reply, sent only if nothing was sent yet.
func (d *Dispatcher) Handle(ctx context.Context, ev Event, r Responder) {
	user := actorOf(ev).UserID
	defer func() {
		if p := recover(); p != nil {
			log.Printf("builder: panic handling %T for %s: %v\n%s", ev, user, p, debug.Stack())
			d.internalError(ctx, r)
		}
	}()

	if err := d.dispatch(ctx, ev, r); err != nil {
		log.Printf("builder: %T for %s failed: %v", ev, user, err)
		d.internalError(ctx, r)
	}
}

func actorOf(ev Event) Actor {
	if ev == nil {
		return Actor{}
	}
	return ev.actor()
}

func (d *Dispatcher) dispatch(ctx context.Context, ev Event, r Responder) error {
	switch e := ev.(type) {
	case Start:
		return d.start(ctx, e, r)
	case Generate:
		return d.generate(ctx, e, r)
	case Select:
		if e.Owner != e.UserID {
			return d.fail(ctx, r, errPermission)
		}
		return d.selectAction(ctx, e, r)
	case SubmitForm:
		if e.Owner != e.UserID {
			return d.fail(ctx, r, errPermission)
		}
		return d.submitForm(ctx, e, r)
	case RemoveButton:
		if e.Owner != e.UserID {
			return d.fail(ctx, r, errPermission)
		}
		return d.removeButton(ctx, e, r)
	case Publish:
		if e.Owner != e.UserID {
			return d.fail(ctx, r, errPermission)
		}
		return d.publish(ctx, e, r)
	case Cancel:
		if e.Owner != e.UserID {
			return d.fail(ctx, r, errPermission)
		}
		return d.cancel(ctx, e, r)
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

func (d *Dispatcher) start(ctx context.Context, e Start, r Responder) error {
	var sess *store.Session
	err := d.locks.WithLock(e.UserID, func() error {
		s, err := d.store.Get(ctx, e.UserID)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if s == nil {
			created := store.NewSession(defaultDraft(e.UserID), d.now(), d.sessionTTL)
			if err := d.store.Save(ctx, created); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			s = &created
			log.Printf("builder: new session for %s", e.UserID)
		}
		sess = s
		return nil
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, panel(sess, msgPanelLoaded))
}

func (d *Dispatcher) generate(ctx context.Context, e Generate, r Responder) error {
	if d.gen == nil {
		return r.Reply(ctx, notice(msgGenerationOff))
	}
	if err := r.Defer(ctx); err != nil {
		return fmt.Errorf("deferring: %w", err)
	}

	data, err := d.gen.Generate(ctx, e.UserID, e.Prompt)
	if errors.Is(err, ai.ErrRateLimited) {
		return r.Edit(ctx, notice(msgRateLimited))
	}
	if err != nil {
		log.Printf("builder: generation for %s failed: %v", e.UserID, err)
		return r.Edit(ctx, notice(errorText(draft.NewError(draft.ErrGenerationFailed, msgGenerationError, err))))
	}

	if err := ai.ValidateDraft(data); err != nil {
		log.Printf("builder: generated draft for %s is off-schema: %v", e.UserID, err)
		return r.Edit(ctx, notice(errorText(draft.NewError(draft.ErrGenerationFailed, msgGenerationShape, err))))
	}
	generated, err := draft.Import(e.UserID, e.GuildID, data)
	if err != nil {
		log.Printf("builder: generated draft for %s rejected: %v", e.UserID, err)
		reason := msgGenerationError
		var de *draft.Error
		if errors.As(err, &de) {
			reason = "A IA gerou um embed inválido: " + de.Message
		}
		return r.Edit(ctx, notice(errorText(draft.NewError(draft.ErrGenerationFailed, reason, err))))
	}

	sess := store.NewSession(generated, d.now(), d.sessionTTL)
	if err := d.locks.WithLock(e.UserID, func() error { return d.store.Save(ctx, sess) }); err != nil {
		log.Printf("builder: saving generated session for %s: %v", e.UserID, err)
		return r.Edit(ctx, notice(msgInternalError))
	}
	return r.Edit(ctx, panel(&sess, msgGenerated))
}

func (d *Dispatcher) selectAction(ctx context.Context, e Select, r Responder) error {
	spec, ok := lookupAction(e.Value)
	if !ok {
		return r.Reply(ctx, notice(msgUnknownAction))
	}

	switch spec.Kind {
	case KindTextPrompt:
		return d.promptFlow(ctx, e, spec, r)
	case KindImmediate:
		if spec.Action == ActionToggleTimestamp {
			return d.update(ctx, r, e.Owner, msgTimestamp, func(s *store.Session) error {
				s.Draft = s.Draft.ToggleTimestamp()
				return nil
			})
		}
	}

	sess, err := d.store.Get(ctx, e.Owner)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if sess == nil {
		return d.fail(ctx, r, errSessionMissing)
	}

	switch spec.Kind {
	case KindImmediate:
		return d.export(ctx, sess, r)
	case KindList:
		return d.showRemoveList(ctx, sess, r)
	case KindForm:
		return r.ShowForm(ctx, buildForm(spec.Form, sess))
	}
	return fmt.Errorf("action %s has no handler", spec.Action)
}

func (d *Dispatcher) export(ctx context.Context, sess *store.Session, r Responder) error {
	data, err := sess.Draft.Export(d.now())
	if err != nil {
		return fmt.Errorf("exporting draft: %w", err)
	}
	content := msgExportReady + "\n```json\n" + string(data) + "\n```"
	if utf8.RuneCountInString(content) <= maxMessageLen {
		return r.Reply(ctx, notice(content))
	}
	v := notice(msgExportReady + " (arquivo anexado)")
	v.Attachment = &Attachment{Name: "embed.json", Data: data}
	return r.Reply(ctx, v)
}

func (d *Dispatcher) showRemoveList(ctx context.Context, sess *store.Session, r Responder) error {
	if len(sess.Draft.Buttons) == 0 {
		return r.Reply(ctx, notice(msgNoButtons))
	}
	choices := make([]Choice, len(sess.Draft.Buttons))
	for i, b := range sess.Draft.Buttons {
		emoji := b.Emoji
		if emoji == "" {
			emoji = "🗑️"
		}
		choices[i] = Choice{
			Label: fmt.Sprintf("%d. %s", i+1, b.Label),
			Value: strconv.Itoa(i),
			Emoji: emoji,
		}
	}
	return r.Reply(ctx, View{
		Content:   msgPickButton,
		Controls:  Controls{Kind: ControlsRemoveList, Choices: choices},
		OwnerID:   sess.OwnerID,
		Ephemeral: true,
	})
}

func buildForm(kind FormKind, sess *store.Session) Form {
	f := Form{Kind: kind, OwnerID: sess.OwnerID}
	switch kind {
	case FormAddButton:
		f.Title = "Adicionar Botão"
		f.Inputs = []Input{
			{ID: InputButtonLabel, Label: "Label", Required: true, MaxLength: draft.MaxButtonLabel},
			{ID: InputButtonEmoji, Label: "Emoji (opcional)"},
			{ID: InputButtonType, Label: "Tipo (link/channel/normal)", Placeholder: "link"},
			{ID: InputButtonDest, Label: "URL ou ID do canal (se aplicável)"},
		}
	case FormImport:
		f.Title = "Importar JSON"
		f.Inputs = []Input{{ID: InputImportJSON, Label: "Cole o JSON aqui", Paragraph: true, Required: true}}
	case FormFont:
		f.Title = "Alterar Fonte via Link (Experimental)"
		f.Inputs = []Input{{ID: InputFontURL, Label: "URL da Fonte (Google Fonts)", Value: sess.Draft.FontURL}}
	}
	return f
}

func (d *Dispatcher) submitForm(ctx context.Context, e SubmitForm, r Responder) error {
	switch e.Form {
	case FormAddButton:
		in := draft.ButtonInput{
			Label:       e.Fields[InputButtonLabel],
			Emoji:       e.Fields[InputButtonEmoji],
			Type:        e.Fields[InputButtonType],
			Destination: e.Fields[InputButtonDest],
			ContextID:   e.GuildID,
		}
		return d.update(ctx, r, e.Owner, msgButtonAdded, func(s *store.Session) error {
			next, err := s.Draft.AddButton(in)
			if err != nil {
				return err
			}
			s.Draft = next
			return nil
		})

	case FormImport:
		imported, err := draft.Import(e.Owner, e.GuildID, []byte(e.Fields[InputImportJSON]))
		if err != nil {
			if !isUserError(err) {
				err = draft.NewError(draft.ErrMalformedImport, "JSON inválido", err)
			}
			return d.fail(ctx, r, err)
		}
		return d.update(ctx, r, e.Owner, msgImported, func(s *store.Session) error {
			imported.FontURL = s.Draft.FontURL
			s.Draft = imported
			return nil
		})

	case FormFont:
		_, err := d.mutate(ctx, e.Owner, func(s *store.Session) error {
			s.Draft = s.Draft.SetFontURL(e.Fields[InputFontURL])
			return nil
		})
		if isUserError(err) {
			return d.fail(ctx, r, err)
		}
		if err != nil {
			return err
		}
		return r.Reply(ctx, notice(msgFontUpdated))
	}
	return fmt.Errorf("unknown form %q", e.Form)
}

func (d *Dispatcher) removeButton(ctx context.Context, e RemoveButton, r Responder) error {
	idx, err := strconv.Atoi(e.Value)
	if err != nil {
		return d.fail(ctx, r, draft.NewError(draft.ErrInvalidIndex, "Valor inválido.", err))
	}
	return d.update(ctx, r, e.Owner, msgButtonRemoved, func(s *store.Session) error {
		next, err := s.Draft.RemoveButton(idx)
		if err != nil {
			return err
		}
		s.Draft = next
		return nil
	})
}

func (d *Dispatcher) publish(ctx context.Context, e Publish, r Responder) error {
	var sess *store.Session
	var sendErr error
	err := d.locks.WithLock(e.Owner, func() error {
		s, err := d.store.Get(ctx, e.Owner)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if s == nil {
			return errSessionMissing
		}
		sess = s

		rows := LayoutButtons(s.Draft, e.GuildID)
		if sendErr = d.platform.Publish(ctx, e.ChannelID, s.Draft, rows); sendErr != nil {
			return nil
		}
		if err := d.store.Delete(ctx, e.Owner); err != nil {
			log.Printf("builder: deleting published session of %s: %v", e.Owner, err)
		}
		return nil
	})
	if isUserError(err) {
		return d.fail(ctx, r, err)
	}
	if err != nil {
		return err
	}

	if sendErr != nil {
		log.Printf("builder: publishing for %s in %s failed: %v", e.Owner, e.ChannelID, sendErr)
		return r.Update(ctx, panel(sess, msgPublishFailed+"\n`"+sendErr.Error()+"`"))
	}
	log.Printf("builder: %s published an embed in %s", e.Owner, e.ChannelID)
	return r.Update(ctx, View{Content: msgPublished})
}

func (d *Dispatcher) cancel(ctx context.Context, e Cancel, r Responder) error {
	err := d.locks.WithLock(e.Owner, func() error { return d.store.Delete(ctx, e.Owner) })
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return r.Update(ctx, View{Content: msgCancelled})
}

// mutate applies fn to the owner's session under the owner's lock and saves
// the result. When fn fails nothing is saved.
func (d *Dispatcher) mutate(ctx context.Context, owner string, fn func(*store.Session) error) (*store.Session, error) {
	var out *store.Session
	err := d.locks.WithLock(owner, func() error {
		sess, err := d.store.Get(ctx, owner)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if sess == nil {
			return errSessionMissing
		}
		if err := fn(sess); err != nil {
			return err
		}
		if err := d.store.Save(ctx, *sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		out = sess
		return nil
	})
	return out, err
}

// update mutates and answers by replacing the panel, or with an ephemeral
// error reply when the edit is rejected.
func (d *Dispatcher) update(ctx context.Context, r Responder, owner, content string, fn func(*store.Session) error) error {
	sess, err := d.mutate(ctx, owner, fn)
	if isUserError(err) {
		return d.fail(ctx, r, err)
	}
	if err != nil {
		return err
	}
	return r.Update(ctx, panel(sess, content))
}

func (d *Dispatcher) fail(ctx context.Context, r Responder, err error) error {
	return r.Reply(ctx, notice(errorText(err)))
}

func (d *Dispatcher) internalError(ctx context.Context, r Responder) {
	if r == nil || r.Responded() {
		return
	}
	if err := r.Reply(ctx, notice(msgInternalError)); err != nil {
		log.Printf("builder: sending internal error reply: %v", err)
	}
}
