package builder

// Actor identifies who triggered an interaction and where.
type Actor struct {
	UserID    string
	ChannelID string
	GuildID   string
}

func (a Actor) actor() Actor { return a }

// Event is one inbound interaction. The set is closed: Start, Generate,
// Select, SubmitForm, RemoveButton, Publish and Cancel.
type Event interface {
	actor() Actor
}

// Start opens the builder panel, creating a draft when none exists.
type Start struct {
	Actor
}

// Generate asks the generator for a fresh draft from a prompt.
type Generate struct {
	Actor
	Prompt string
}

// Select is a choice from the main action menu.
type Select struct {
	Actor
	Owner string
	Value string
}

// SubmitForm carries the values of a submitted modal form keyed by input ID.
type SubmitForm struct {
	Actor
	Owner  string
	Form   FormKind
	Fields map[string]string
}

// RemoveButton is a choice from the remove-button list. Value is the
// 0-based button position.
type RemoveButton struct {
	Actor
	Owner string
	Value string
}

type Publish struct {
	Actor
	Owner string
}

type Cancel struct {
	Actor
	Owner string
}
