package builder

import (
	"context"

	"github.com/lojasmm/embedkit/internal/draft"
)

type ControlKind int

const (
	ControlsNone       ControlKind = iota
	ControlsPanel                  // action menu plus publish/cancel
	ControlsRemoveList             // one choice per button
)

type Choice struct {
	Label string
	Value string
	Emoji string
}

type Controls struct {
	Kind    ControlKind
	Choices []Choice
}

type Attachment struct {
	Name string
	Data []byte
}

// View is everything a response shows. Preview is nil when no embed is shown.
// Ephemeral only applies to new replies.
type View struct {
	Content    string
	Preview    *draft.Draft
	Controls   Controls
	OwnerID    string
	Ephemeral  bool
	Attachment *Attachment
}

type FormKind string

const (
	FormAddButton FormKind = "add_button"
	FormImport    FormKind = "import_json"
	FormFont      FormKind = "edit_font"
)

// Form input IDs.
const (
	InputButtonLabel = "b_label"
	InputButtonEmoji = "b_emoji"
	InputButtonType  = "b_type"
	InputButtonDest  = "b_dest"
	InputImportJSON  = "json_data"
	InputFontURL     = "font_url"
)

type Input struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	Paragraph   bool
	Required    bool
	MaxLength   int
}

// Form is a modal whose submission comes back as a SubmitForm event.
type Form struct {
	Kind    FormKind
	OwnerID string
	Title   string
	Inputs  []Input
}

// Responder answers the interaction that produced an event.
type Responder interface {
	// Reply sends a new message.
	Reply(ctx context.Context, v View) error
	// Update replaces the message the triggering component belongs to.
	Update(ctx context.Context, v View) error
	// Defer acknowledges now; the answer follows with Edit.
	Defer(ctx context.Context) error
	// Edit changes the message produced by an earlier Reply, Update or Defer.
	Edit(ctx context.Context, v View) error
	ShowForm(ctx context.Context, f Form) error
	// Responded reports whether anything was sent for this interaction.
	Responded() bool
}

// Message is a plain chat message sent by a user.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// PublishedButton is a button laid out for the final message. Exactly one
// of URL and CustomID is set.
type PublishedButton struct {
	Label    string
	Emoji    string
	Style    draft.ButtonStyle
	URL      string
	CustomID string
}

// Platform is the chat surface outside the interaction itself.
type Platform interface {
	// AwaitMessage blocks until userID sends a message in channelID or ctx ends.
	AwaitMessage(ctx context.Context, channelID, userID string) (*Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Publish(ctx context.Context, channelID string, d draft.Draft, rows [][]PublishedButton) error
}

// Generator produces draft JSON from a prompt.
type Generator interface {
	Generate(ctx context.Context, ownerID, prompt string) ([]byte, error)
}
