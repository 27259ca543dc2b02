package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

func pingCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "ping",
		Aliases:     []string{"ping", "latency"},
		Description: "Shows the latency of the bot",
		Usage:       "ping",
		Examples:    []string{"ping"},
		Category:    "info",
		Slash:       true,
		Execute: func(ctx *command.Context, args command.Args) {
			botLatency := "N/A"

			// The trigger snowflake carries its creation instant.
			trigger := ctx.TriggerMessageID()
			if trigger == "" && ctx.Interaction != nil {
				trigger = ctx.Interaction.ID
			}
			if ts, err := discordgo.SnowflakeTimestamp(trigger); err == nil {
				botLatency = fmt.Sprintf("%dms", d.opts.now().Sub(ts).Milliseconds())
			}
			apiLatency := fmt.Sprintf("%dms", d.opts.heartbeat().Milliseconds())

			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Color: utils.Colors.Base(),
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Bot latency", Value: utils.InlineCode(botLatency), Inline: true},
					{Name: "Api latency", Value: utils.InlineCode(apiLatency), Inline: true},
				},
			})
		},
	}
}
