package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lojasmm/embedkit/internal/builder"
	"github.com/lojasmm/embedkit/internal/draft"
)

// ChannelAPI is the slice of *discordgo.Session used outside interactions.
type ChannelAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Platform implements builder.Platform on top of a Discord session.
type Platform struct {
	api       ChannelAPI
	collector *Collector
	now       func() time.Time
}

func NewPlatform(api ChannelAPI, c *Collector) *Platform {
	return &Platform{api: api, collector: c, now: time.Now}
}

func (p *Platform) AwaitMessage(ctx context.Context, channelID, userID string) (*builder.Message, error) {
	return p.collector.Await(ctx, channelID, userID)
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.api.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("deleting message %s: %w", messageID, err)
	}
	return nil
}

func (p *Platform) Publish(ctx context.Context, channelID string, d draft.Draft, rows [][]builder.PublishedButton) error {
	msg := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{RenderEmbed(d, p.now())},
		Components: renderPublished(rows),
	}
	if _, err := p.api.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending embed to %s: %w", channelID, err)
	}
	return nil
}
