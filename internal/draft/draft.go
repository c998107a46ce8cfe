package draft

import (
	"slices"
	"strings"
)

type ButtonType string

const (
	TypeNormal  ButtonType = "normal"
	TypeLink    ButtonType = "link"
	TypeChannel ButtonType = "channel"
)

type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
	StyleSuccess   ButtonStyle = "success"
	StyleDanger    ButtonStyle = "danger"
	StyleLink      ButtonStyle = "link"
)

const defaultButtonLabel = "Botão"

// Field is one name/value entry of the embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Button is an action button published below the embed.
type Button struct {
	Label       string      `json:"label"`
	Emoji       string      `json:"emoji,omitempty"`
	Type        ButtonType  `json:"type"`
	Style       ButtonStyle `json:"style"`
	Destination string      `json:"destination,omitempty"`
	ContextID   string      `json:"context_id,omitempty"`
}

// Draft is one user's in-progress embed. Mutations use value receivers and
// return a new Draft, so a rejected edit never touches the original.
type Draft struct {
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Color       *int     `json:"color,omitempty"`
	Image       string   `json:"image,omitempty"`
	Fields      []Field  `json:"fields,omitempty"`
	Timestamp   bool     `json:"timestamp,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
	FontURL     string   `json:"font_url,omitempty"`
}

// ButtonInput carries the raw values of the add-button form.
type ButtonInput struct {
	Label       string
	Emoji       string
	Type        string
	Style       string // optional; derived from Type when empty
	Destination string
	ContextID   string
}

// New returns an empty draft owned by ownerID.
func New(ownerID string) Draft {
	return Draft{OwnerID: ownerID}
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	d.Fields = slices.Clone(d.Fields)
	d.Buttons = slices.Clone(d.Buttons)
	if d.Color != nil {
		c := *d.Color
		d.Color = &c
	}
	return d
}

// IsEmpty reports whether the draft has no visible embed content.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		len(d.Fields) == 0 &&
		d.Image == "" &&
		d.Color == nil
}

func (d Draft) SetTitle(text string) Draft {
	d = d.Clone()
	d.Title = text
	return d
}

func (d Draft) SetDescription(text string) Draft {
	d = d.Clone()
	d.Description = text
	return d
}

func (d Draft) SetColor(raw string) (Draft, error) {
	c, err := NormalizeColor(raw)
	if err != nil {
		return d, err
	}
	d = d.Clone()
	d.Color = &c
	return d, nil
}

// SetImage sets the image URL; an empty input clears it.
func (d Draft) SetImage(raw string) (Draft, error) {
	d = d.Clone()
	if strings.TrimSpace(raw) == "" {
		d.Image = ""
		return d, nil
	}
	u, ok := NormalizeURL(raw)
	if !ok {
		return d, newError(ErrInvalidURL, "URL inválida. Use um link http(s)://...")
	}
	d.Image = u
	return d, nil
}

func (d Draft) AddField(name, value string) (Draft, error) {
	if len(d.Fields) >= MaxFields {
		return d, newError(ErrFieldLimitExceeded, "Máximo de %d campos atingido.", MaxFields)
	}
	d = d.Clone()
	d.Fields = append(d.Fields, Field{Name: name, Value: value})
	return d, nil
}

func (d Draft) RemoveField(index1 int) (Draft, error) {
	i := index1 - 1
	if i < 0 || i >= len(d.Fields) {
		return d, newError(ErrIndexOutOfRange, "Campo %d não existe", index1)
	}
	d = d.Clone()
	d.Fields = slices.Delete(d.Fields, i, i+1)
	return d, nil
}

func (d Draft) ToggleTimestamp() Draft {
	d = d.Clone()
	d.Timestamp = !d.Timestamp
	return d
}

func (d Draft) SetFontURL(raw string) Draft {
	d = d.Clone()
	d.FontURL = strings.TrimSpace(raw)
	return d
}

// NewButton validates the raw form values and builds a Button.
func NewButton(in ButtonInput) (Button, error) {
	typ := TypeLink
	if strings.TrimSpace(in.Type) != "" {
		t, err := ParseButtonType(in.Type)
		if err != nil {
			return Button{}, err
		}
		typ = t
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = defaultButtonLabel
	}

	b := Button{
		Label:     truncateRunes(label, MaxButtonLabel),
		Emoji:     strings.TrimSpace(in.Emoji),
		Type:      typ,
		Style:     StylePrimary,
		ContextID: in.ContextID,
	}

	dest := strings.TrimSpace(in.Destination)
	switch typ {
	case TypeLink:
		u, ok := NormalizeURL(dest)
		if !ok {
			return Button{}, newError(ErrInvalidURL, "URL inválida para link")
		}
		b.Destination = u
		b.Style = StyleLink
	case TypeChannel:
		if !ValidChannelID(dest) {
			return Button{}, newError(ErrInvalidURL, "ID de canal inválido")
		}
		b.Destination = dest
	}

	if strings.TrimSpace(in.Style) != "" {
		s, err := ParseButtonStyle(in.Style)
		if err != nil {
			return Button{}, err
		}
		b.Style = s
	}
	return b, nil
}

func (d Draft) AddButton(in ButtonInput) (Draft, error) {
	b, err := NewButton(in)
	if err != nil {
		return d, err
	}
	if len(d.Buttons) >= MaxButtons {
		return d, newError(ErrButtonLimitExceeded, "Máximo de %d botões atingido", MaxButtons)
	}
	d = d.Clone()
	d.Buttons = append(d.Buttons, b)
	return d, nil
}

// RemoveButton deletes the button at the 0-based position.
func (d Draft) RemoveButton(index0 int) (Draft, error) {
	if index0 < 0 || index0 >= len(d.Buttons) {
		return d, newError(ErrIndexOutOfRange, "Botão %d não existe", index0+1)
	}
	d = d.Clone()
	d.Buttons = slices.Delete(d.Buttons, index0, index0+1)
	return d, nil
}

func (d Draft) EditButtonLabel(index1 int, label string) (Draft, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return d, newError(ErrInvalidInput, "O label não pode ser vazio")
	}
	return d.editButton(index1, func(b *Button) error {
		b.Label = truncateRunes(label, MaxButtonLabel)
		return nil
	})
}

func (d Draft) SetButtonEmoji(index1 int, emoji string) (Draft, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return d, newError(ErrInvalidInput, "Informe um emoji")
	}
	return d.editButton(index1, func(b *Button) error {
		b.Emoji = emoji
		return nil
	})
}

func (d Draft) ClearButtonEmoji(index1 int) (Draft, error) {
	return d.editButton(index1, func(b *Button) error {
		b.Emoji = ""
		return nil
	})
}

func (d Draft) EditButtonStyle(index1 int, style string) (Draft, error) {
	return d.editButton(index1, func(b *Button) error {
		s, err := ParseButtonStyle(style)
		if err != nil {
			return err
		}
		b.Style = s
		return nil
	})
}

func (d Draft) editButton(index1 int, fn func(*Button) error) (Draft, error) {
	i := index1 - 1
	if i < 0 || i >= len(d.Buttons) {
		return d, newError(ErrIndexOutOfRange, "Botão %d não existe", index1)
	}
	next := d.Clone()
	if err := fn(&next.Buttons[i]); err != nil {
		return d, err
	}
	return next, nil
}
