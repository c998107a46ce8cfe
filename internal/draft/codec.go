package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Platform-embed shaped documents used for export and import.

type exportDoc struct {
	Embed   embedDoc    `json:"embed"`
	Buttons []buttonDoc `json:"buttons"`
}

type embedDoc struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       json.RawMessage `json:"color,omitempty"`
	Image       *imageDoc       `json:"image,omitempty"`
	Fields      []Field         `json:"fields,omitempty"`
	Timestamp   json.RawMessage `json:"timestamp,omitempty"`
}

type imageDoc struct {
	URL string `json:"url"`
}

type buttonDoc struct {
	Label   string `json:"label"`
	Emoji   string `json:"emoji,omitempty"`
	Type    string `json:"type,omitempty"`
	Style   string `json:"style,omitempty"`
	URL     string `json:"url,omitempty"`
	GuildID string `json:"guildId,omitempty"`
}

// Export serializes the draft as {"embed": ..., "buttons": [...]} indented JSON.
// now fills the embed timestamp when the flag is set.
func (d Draft) Export(now time.Time) ([]byte, error) {
	doc := exportDoc{
		Embed: embedDoc{
			Title:       d.Title,
			Description: d.Description,
			Fields:      d.Fields,
		},
		Buttons: make([]buttonDoc, 0, len(d.Buttons)),
	}
	if d.Color != nil {
		doc.Embed.Color = json.RawMessage(fmt.Sprintf("%d", *d.Color))
	}
	if d.Image != "" {
		doc.Embed.Image = &imageDoc{URL: d.Image}
	}
	if d.Timestamp {
		ts, _ := json.Marshal(now.UTC().Format(time.RFC3339))
		doc.Embed.Timestamp = ts
	}
	for _, b := range d.Buttons {
		doc.Buttons = append(doc.Buttons, buttonDoc{
			Label:   b.Label,
			Emoji:   b.Emoji,
			Type:    string(b.Type),
			Style:   string(b.Style),
			URL:     b.Destination,
			GuildID: b.ContextID,
		})
	}
	return json.MarshalIndent(doc, "", "    ")
}

// Import normalizes an exported document, a message shape with an "embeds"
// array (first element used) or a bare embed object into a Draft.
// Fields and buttons over the limits are rejected, not truncated.
func Import(ownerID, contextID string, data []byte) (Draft, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &root); err != nil {
		return Draft{}, &Error{Type: ErrMalformedImport, Message: "JSON inválido", Err: err}
	}

	embedRaw := findEmbed(root, data)
	if embedRaw == nil {
		return Draft{}, newError(ErrMalformedImport, "Estrutura inválida: não foi encontrado o objeto embed")
	}

	var e embedDoc
	if err := json.Unmarshal(embedRaw, &e); err != nil {
		return Draft{}, &Error{Type: ErrMalformedImport, Message: "Embed inválido no JSON", Err: err}
	}

	d := New(ownerID)
	d.Title = e.Title
	d.Description = e.Description

	color, err := decodeColor(e.Color)
	if err != nil {
		return Draft{}, err
	}
	d.Color = color

	if e.Image != nil && strings.TrimSpace(e.Image.URL) != "" {
		if d, err = d.SetImage(e.Image.URL); err != nil {
			return Draft{}, err
		}
	}

	if len(e.Fields) > MaxFields {
		return Draft{}, newError(ErrFieldLimitExceeded, "O JSON tem %d campos; o máximo é %d", len(e.Fields), MaxFields)
	}
	if len(e.Fields) > 0 {
		d.Fields = append([]Field(nil), e.Fields...)
	}
	d.Timestamp = decodeTimestamp(e.Timestamp)

	buttons, err := decodeButtons(root["buttons"], contextID)
	if err != nil {
		return Draft{}, err
	}
	d.Buttons = buttons
	return d, nil
}

func findEmbed(root map[string]json.RawMessage, data []byte) json.RawMessage {
	if raw, ok := root["embed"]; ok && isObject(raw) {
		return raw
	}
	if raw, ok := root["embeds"]; ok {
		var embeds []json.RawMessage
		if err := json.Unmarshal(raw, &embeds); err == nil && len(embeds) > 0 && isObject(embeds[0]) {
			return embeds[0]
		}
	}
	for _, key := range []string{"title", "description", "fields", "color"} {
		if _, ok := root[key]; ok {
			return json.RawMessage(data)
		}
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func decodeColor(raw json.RawMessage) (*int, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || string(t) == "null" {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(t, &s); err == nil {
		c, err := NormalizeColor(s)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}

	var f float64
	if err := json.Unmarshal(t, &f); err != nil || f != math.Trunc(f) || f < 0 || f > MaxColor {
		return nil, newError(ErrInvalidColor, "Cor inválida no JSON: %s", t)
	}
	c := int(f)
	return &c, nil
}

func decodeTimestamp(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(t, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(t, &s); err == nil {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func decodeButtons(raw json.RawMessage, contextID string) ([]Button, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || string(t) == "null" {
		return nil, nil
	}

	var docs []buttonDoc
	if err := json.Unmarshal(t, &docs); err != nil {
		return nil, &Error{Type: ErrMalformedImport, Message: "Lista de botões inválida", Err: err}
	}
	if len(docs) > MaxButtons {
		return nil, newError(ErrButtonLimitExceeded, "O JSON tem %d botões; o máximo é %d", len(docs), MaxButtons)
	}

	var buttons []Button
	for i, bd := range docs {
		typ := bd.Type
		if strings.TrimSpace(typ) == "" {
			typ = string(TypeNormal)
			if strings.EqualFold(strings.TrimSpace(bd.Style), string(StyleLink)) {
				typ = string(TypeLink)
			}
		}
		ctx := bd.GuildID
		if ctx == "" {
			ctx = contextID
		}
		b, err := NewButton(ButtonInput{
			Label:       bd.Label,
			Emoji:       bd.Emoji,
			Type:        typ,
			Style:       bd.Style,
			Destination: bd.URL,
			ContextID:   ctx,
		})
		if err != nil {
			if de, ok := err.(*Error); ok {
				return nil, newError(de.Type, "Botão %d: %s", i+1, de.Message)
			}
			return nil, err
		}
		buttons = append(buttons, b)
	}
	return buttons, nil
}
