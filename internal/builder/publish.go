package builder

import (
	"fmt"
	"log"
	"strings"

	"github.com/lojasmm/embedkit/internal/draft"
)

const (
	maxButtonsPerRow  = 5
	inertButtonPrefix = "userbtn|"
)

// InertButtonID is the custom ID of a published non-link button. Pressing
// one has no effect beyond an acknowledgement.
func InertButtonID(ownerID string, position int) string {
	return fmt.Sprintf("%s%s|%d", inertButtonPrefix, ownerID, position)
}

// IsInertButtonID reports whether customID was produced by InertButtonID.
func IsInertButtonID(customID string) bool {
	return strings.HasPrefix(customID, inertButtonPrefix)
}

// ChannelLink is the deep link to a channel inside a guild.
func ChannelLink(guildID, channelID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s", guildID, channelID)
}

// LayoutButtons groups the draft's buttons into rows of at most five.
// Link-style buttons get a URL; a channel destination is turned into a deep
// link using the button's guild or fallbackGuild. Link-style buttons with no
// usable destination, including channel links with no known guild, are skipped. Every other button gets an inert custom ID.
func LayoutButtons(d draft.Draft, fallbackGuild string) [][]PublishedButton {
	var rows [][]PublishedButton
	for i := 0; i < len(d.Buttons); i += maxButtonsPerRow {
		var row []PublishedButton
		for j := i; j < i+maxButtonsPerRow && j < len(d.Buttons); j++ {
			b := d.Buttons[j]
			pb := PublishedButton{Label: b.Label, Emoji: b.Emoji, Style: b.Style}
			if pb.Label == "" {
				pb.Label = "Botão"
			}

			if b.Style == draft.StyleLink {
				url := b.Destination
				if b.Type == draft.TypeChannel && b.Destination != "" {
					guild := b.ContextID
					if guild == "" {
						guild = fallbackGuild
					}
					url = ""
					if guild != "" {
						url = ChannelLink(guild, b.Destination)
					}
				}
				if b.Type == draft.TypeNormal || url == "" {
					log.Printf("builder: skipping link button %q of %s without destination", b.Label, d.OwnerID)
					continue
				}
				pb.URL = url
			} else {
				pb.CustomID = InertButtonID(d.OwnerID, j)
			}
			row = append(row, pb)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
