package discord

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lojasmm/embedkit/internal/builder"
)

// InteractionAPI is the slice of *discordgo.Session used to answer interactions.
type InteractionAPI interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, e *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Responder answers a single interaction.
type Responder struct {
	api       InteractionAPI
	i         *discordgo.Interaction
	responded atomic.Bool
	now       func() time.Time
}

func NewResponder(api InteractionAPI, i *discordgo.Interaction) *Responder {
	return &Responder{api: api, i: i, now: time.Now}
}

func (r *Responder) Reply(ctx context.Context, v builder.View) error {
	data := r.data(v)
	if v.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.respond(ctx, discordgo.InteractionResponseChannelMessageWithSource, data)
}

func (r *Responder) Update(ctx context.Context, v builder.View) error {
	return r.respond(ctx, discordgo.InteractionResponseUpdateMessage, r.data(v))
}

// Defer acknowledges with an ephemeral "thinking" state.
func (r *Responder) Defer(ctx context.Context) error {
	return r.respond(ctx, discordgo.InteractionResponseDeferredChannelMessageWithSource,
		&discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral})
}

func (r *Responder) Edit(ctx context.Context, v builder.View) error {
	content := v.Content
	embeds := renderEmbeds(v, r.now())
	components := renderComponents(v)
	_, err := r.api.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
		Files:      renderFiles(v),
	}, discordgo.WithContext(ctx))
	return err
}

func (r *Responder) ShowForm(ctx context.Context, f builder.Form) error {
	return r.respond(ctx, discordgo.InteractionResponseModal, renderForm(f))
}

func (r *Responder) Responded() bool {
	return r.responded.Load()
}

func (r *Responder) respond(ctx context.Context, t discordgo.InteractionResponseType, data *discordgo.InteractionResponseData) error {
	err := r.api.InteractionRespond(r.i, &discordgo.InteractionResponse{Type: t, Data: data}, discordgo.WithContext(ctx))
	if err == nil {
		r.responded.Store(true)
	}
	return err
}

func (r *Responder) data(v builder.View) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    v.Content,
		Embeds:     renderEmbeds(v, r.now()),
		Components: renderComponents(v),
		Files:      renderFiles(v),
	}
}
