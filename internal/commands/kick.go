package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func kickCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "kick",
		Aliases:     []string{"kick"},
		Description: "Kicks a member from the guild",
		Usage:       "kick <member> [reason]",
		Examples:    []string{"kick @oxi spamming"},
		Category:    "moderation",
		Slash:       true,
		Args: []command.Argument{
			{
				Name:        "member",
				Description: "The member to kick",
				Required:    true,
				Type:        command.ArgMember,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "reason",
				Description: "The reason of the kick",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Kick(ctx.GuildID, request(ctx, args, "member"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
