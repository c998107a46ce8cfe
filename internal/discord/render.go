package discord

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lojasmm/embedkit/internal/builder"
	"github.com/lojasmm/embedkit/internal/draft"
)

const zeroWidthSpace = "​"

var customEmojiRe = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)

// RenderEmbed converts a draft into a Discord embed. An empty draft renders
// with a zero-width description so Discord accepts it.
func RenderEmbed(d draft.Draft, now time.Time) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       d.Title,
		Description: d.Description,
	}
	if d.Color != nil {
		e.Color = *d.Color
	}
	if d.Image != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: d.Image}
	}
	for _, f := range d.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if d.Timestamp {
		e.Timestamp = now.UTC().Format(time.RFC3339)
	}
	if d.IsEmpty() {
		e.Description = zeroWidthSpace
	}
	return e
}

// ParseEmoji turns a unicode emoji or a <:name:id> / <a:name:id> token into
// a component emoji. Empty input yields nil.
func ParseEmoji(token string) *discordgo.ComponentEmoji {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if m := customEmojiRe.FindStringSubmatch(token); m != nil {
		return &discordgo.ComponentEmoji{Name: m[2], ID: m[3], Animated: m[1] == "a"}
	}
	return &discordgo.ComponentEmoji{Name: token}
}

var buttonStyles = map[draft.ButtonStyle]discordgo.ButtonStyle{
	draft.StylePrimary:   discordgo.PrimaryButton,
	draft.StyleSecondary: discordgo.SecondaryButton,
	draft.StyleSuccess:   discordgo.SuccessButton,
	draft.StyleDanger:    discordgo.DangerButton,
	draft.StyleLink:      discordgo.LinkButton,
}

func buttonStyle(s draft.ButtonStyle) discordgo.ButtonStyle {
	if bs, ok := buttonStyles[s]; ok {
		return bs
	}
	return discordgo.PrimaryButton
}

func renderEmbeds(v builder.View, now time.Time) []*discordgo.MessageEmbed {
	if v.Preview == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{RenderEmbed(*v.Preview, now)}
}

func renderComponents(v builder.View) []discordgo.MessageComponent {
	switch v.Controls.Kind {
	case builder.ControlsPanel:
		return panelComponents(v.OwnerID)
	case builder.ControlsRemoveList:
		return removeListComponents(v.OwnerID, v.Controls.Choices)
	}
	return []discordgo.MessageComponent{}
}

func panelComponents(owner string) []discordgo.MessageComponent {
	menu := builder.Menu()
	options := make([]discordgo.SelectMenuOption, len(menu))
	for i, m := range menu {
		options[i] = discordgo.SelectMenuOption{
			Label: m.Label,
			Value: string(m.Value),
			Emoji: ParseEmoji(m.Emoji),
		}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    EncodeID(KindMenu, owner),
				Placeholder: "Escolha o que editar",
				Options:     options,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Publicar",
				Style:    discordgo.SuccessButton,
				CustomID: EncodeID(KindPublish, owner),
				Emoji:    ParseEmoji("✅"),
			},
			discordgo.Button{
				Label:    "Cancelar",
				Style:    discordgo.DangerButton,
				CustomID: EncodeID(KindCancel, owner),
				Emoji:    ParseEmoji("❌"),
			},
		}},
	}
}

func removeListComponents(owner string, choices []builder.Choice) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(choices))
	for _, c := range choices {
		options = append(options, discordgo.SelectMenuOption{
			Label: truncate(c.Label, 100),
			Value: c.Value,
			Emoji: ParseEmoji(c.Emoji),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    EncodeID(KindRemove, owner),
				Placeholder: "Escolha o botão para remover",
				Options:     options,
			},
		}},
	}
}

// renderPublished builds the action rows of a published message.
func renderPublished(rows [][]builder.PublishedButton) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		comps := make([]discordgo.MessageComponent, 0, len(row))
		for _, b := range row {
			btn := discordgo.Button{Label: b.Label, Emoji: ParseEmoji(b.Emoji)}
			if b.URL != "" {
				btn.Style = discordgo.LinkButton
				btn.URL = b.URL
			} else {
				btn.Style = buttonStyle(b.Style)
				btn.CustomID = b.CustomID
			}
			comps = append(comps, btn)
		}
		out = append(out, discordgo.ActionsRow{Components: comps})
	}
	return out
}

func renderForm(f builder.Form) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(f.Inputs))
	for _, in := range f.Inputs {
		style := discordgo.TextInputShort
		if in.Paragraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    in.ID,
				Label:       in.Label,
				Style:       style,
				Placeholder: in.Placeholder,
				Value:       in.Value,
				Required:    in.Required,
				MaxLength:   in.MaxLength,
			},
		}})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   FormID(f.Kind, f.OwnerID),
		Title:      f.Title,
		Components: rows,
	}
}

func renderFiles(v builder.View) []*discordgo.File {
	if v.Attachment == nil {
		return nil
	}
	return []*discordgo.File{{
		Name:        v.Attachment.Name,
		ContentType: "application/json",
		Reader:      bytes.NewReader(v.Attachment.Data),
	}}
}

// ModalValues collects every text input of a modal submission by custom ID.
func ModalValues(m discordgo.ModalSubmitInteractionData) map[string]string {
	out := make(map[string]string)
	for _, comp := range m.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok || row == nil {
			continue
		}
		for _, c := range row.Components {
			if ti, ok := c.(*discordgo.TextInput); ok {
				out[ti.CustomID] = ti.Value
			}
		}
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
