package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojasmm/embedkit/internal/builder"
	"github.com/lojasmm/embedkit/internal/draft"
)

type fakeAPI struct {
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	sent      []*discordgo.MessageSend
	sentTo    []string
	deleted   []string
	err       error
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, r *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, e *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edits = append(f.edits, e)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sentTo = append(f.sentTo, channelID)
	f.sent = append(f.sent, data)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func newTestResponder(api *fakeAPI) *Responder {
	r := NewResponder(api, &discordgo.Interaction{ID: "i1"})
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestResponder_ReplyEphemeral(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResponder(api)

	require.NoError(t, r.Reply(context.Background(), builder.View{Content: "oi", Ephemeral: true}))

	require.Len(t, api.responses, 1)
	resp := api.responses[0]
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "oi", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.True(t, r.Responded())
}

func TestResponder_UpdateWithPanel(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResponder(api)
	d := draft.New("42").SetTitle("Promo")

	require.NoError(t, r.Update(context.Background(), builder.View{
		Preview: &d, OwnerID: "42", Controls: builder.Controls{Kind: builder.ControlsPanel},
	}))

	resp := api.responses[0]
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, "Promo", resp.Data.Embeds[0].Title)
	assert.Len(t, resp.Data.Components, 2)
	assert.Zero(t, resp.Data.Flags)
}

func TestResponder_PromptOnlyUpdateClearsPreview(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResponder(api)

	require.NoError(t, r.Update(context.Background(), builder.View{Content: "Digite:"}))

	data := api.responses[0].Data
	assert.NotNil(t, data.Embeds)
	assert.Empty(t, data.Embeds)
	assert.NotNil(t, data.Components)
	assert.Empty(t, data.Components)
}

func TestResponder_DeferThenEdit(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResponder(api)

	require.NoError(t, r.Defer(context.Background()))
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, api.responses[0].Type)
	assert.True(t, r.Responded())

	d := draft.New("42").SetDescription("gerado")
	require.NoError(t, r.Edit(context.Background(), builder.View{Content: "pronto", Preview: &d}))

	require.Len(t, api.edits, 1)
	e := api.edits[0]
	require.NotNil(t, e.Content)
	assert.Equal(t, "pronto", *e.Content)
	require.NotNil(t, e.Embeds)
	assert.Equal(t, "gerado", (*e.Embeds)[0].Description)
}

func TestResponder_ShowForm(t *testing.T) {
	api := &fakeAPI{}
	r := newTestResponder(api)

	require.NoError(t, r.ShowForm(context.Background(), builder.Form{Kind: builder.FormFont, OwnerID: "42", Title: "Fonte"}))

	resp := api.responses[0]
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, "embed:form-edit_font|42", resp.Data.CustomID)
}

func TestResponder_FailureNotMarkedResponded(t *testing.T) {
	api := &fakeAPI{err: errors.New("unknown interaction")}
	r := newTestResponder(api)

	assert.Error(t, r.Reply(context.Background(), builder.View{Content: "oi"}))
	assert.False(t, r.Responded())
}
