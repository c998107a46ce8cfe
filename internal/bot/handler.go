package bot

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lojasmm/embedkit/internal/builder"
	"github.com/lojasmm/embedkit/internal/discord"
)

const (
	msgAdminOnly   = "Apenas administradores podem usar esta ferramenta."
	msgInertButton = "Botão do embed acionado (sem ação automática)."

	// Interaction tokens stay valid for 15 minutes.
	interactionTimeout = 15 * time.Minute
)

// EventHandler consumes builder events. *builder.Dispatcher implements it.
type EventHandler interface {
	Handle(ctx context.Context, ev builder.Event, r builder.Responder)
}

// Handler turns Discord interactions into builder events.
type Handler struct {
	events      EventHandler
	api         discord.InteractionAPI
	adminRoleID string
}

func NewHandler(events EventHandler, api discord.InteractionAPI, adminRoleID string) *Handler {
	return &Handler{events: events, api: api, adminRoleID: adminRoleID}
}

// HandleInteraction is registered with discordgo.
func (h *Handler) HandleInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	h.Route(ic.Interaction)
}

func (h *Handler) Route(i *discordgo.Interaction) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()
	r := discord.NewResponder(h.api, i)

	// Buttons on published embeds are for everyone and do nothing.
	if i.Type == discordgo.InteractionMessageComponent && builder.IsInertButtonID(i.MessageComponentData().CustomID) {
		h.notice(ctx, r, msgInertButton)
		return
	}

	ev, ok := toEvent(i)
	if !ok {
		log.Printf("bot: ignoring interaction %s (type %d)", i.ID, i.Type)
		return
	}
	if !h.allowed(i) {
		h.notice(ctx, r, msgAdminOnly)
		return
	}
	h.events.Handle(ctx, ev, r)
}

// allowed applies the admin role gate. Interactions outside a guild carry no
// member and are let through.
func (h *Handler) allowed(i *discordgo.Interaction) bool {
	if h.adminRoleID == "" || i.Member == nil {
		return true
	}
	return slices.Contains(i.Member.Roles, h.adminRoleID)
}

func (h *Handler) notice(ctx context.Context, r *discord.Responder, content string) {
	if err := r.Reply(ctx, builder.View{Content: content, Ephemeral: true}); err != nil {
		log.Printf("bot: failed to reply: %v", err)
	}
}

func toEvent(i *discordgo.Interaction) (builder.Event, bool) {
	a := actorOf(i)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case CommandBuilder:
			return builder.Start{Actor: a}, true
		case CommandAI:
			return builder.Generate{Actor: a, Prompt: stringOption(data.Options, OptionPrompt)}, true
		}

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		kind, owner, ok := discord.DecodeID(data.CustomID)
		if !ok {
			return nil, false
		}
		switch kind {
		case discord.KindMenu:
			return builder.Select{Actor: a, Owner: owner, Value: firstValue(data.Values)}, true
		case discord.KindRemove:
			return builder.RemoveButton{Actor: a, Owner: owner, Value: firstValue(data.Values)}, true
		case discord.KindPublish:
			return builder.Publish{Actor: a, Owner: owner}, true
		case discord.KindCancel:
			return builder.Cancel{Actor: a, Owner: owner}, true
		}

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		kind, owner, ok := discord.DecodeID(data.CustomID)
		if !ok {
			return nil, false
		}
		form, ok := discord.FormKindOf(kind)
		if !ok {
			return nil, false
		}
		return builder.SubmitForm{Actor: a, Owner: owner, Form: form, Fields: discord.ModalValues(data)}, true
	}
	return nil, false
}

func actorOf(i *discordgo.Interaction) builder.Actor {
	a := builder.Actor{ChannelID: i.ChannelID, GuildID: i.GuildID}
	switch {
	case i.Member != nil && i.Member.User != nil:
		a.UserID = i.Member.User.ID
	case i.User != nil:
		a.UserID = i.User.ID
	}
	return a
}

func stringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
