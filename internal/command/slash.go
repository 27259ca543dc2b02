package command

import (
	"github.com/bwmarrin/discordgo"
)

// ApplicationCommand converts the descriptor into the payload registered
// with the platform for the slash transport.
func (c *Command) ApplicationCommand() *discordgo.ApplicationCommand {
	app := &discordgo.ApplicationCommand{
		Name:        c.ID,
		Description: c.Description,
		NSFW:        &c.NSFW,
	}
	if c.GuildOnly {
		app.Contexts = &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild}
	}

	// Required options must precede optional ones in slash payloads.
	for _, pass := range []bool{true, false} {
		for _, def := range c.Args {
			if def.Required != pass {
				continue
			}
			app.Options = append(app.Options, slashOption(def))
		}
	}
	return app
}

func slashOption(def Argument) *discordgo.ApplicationCommandOption {
	opt := &discordgo.ApplicationCommandOption{
		Type:        def.SlashType,
		Name:        def.Name,
		Description: def.Description,
		Required:    def.Required,
	}
	for _, choice := range def.Choices {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice.Label,
			Value: choice.Value,
		})
	}
	return opt
}
