package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandBuilder = "embed-builder"
	CommandAI      = "ai-embed"
	OptionPrompt   = "prompt"
)

// Commands are the slash commands the bot owns.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandBuilder,
		Description: "Abre o construtor interativo de embeds",
	},
	{
		Name:        CommandAI,
		Description: "Gera um embed com IA a partir de uma descrição",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionPrompt,
				Description: "Descreva o embed que você quer",
				Required:    true,
			},
		},
	},
}

type CommandAPI interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands overwrites the application's commands. An empty guildID
// registers them globally.
func RegisterCommands(api CommandAPI, appID, guildID string) error {
	if _, err := api.ApplicationCommandBulkOverwrite(appID, guildID, Commands); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	return nil
}
