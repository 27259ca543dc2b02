package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func warnCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "warn",
		Aliases:     []string{"warn"},
		Description: "Warns a user",
		Usage:       "warn <user> <reason>",
		Examples:    []string{"warn @oxi swearing"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionManageMessages},
		BotPerms:    []int64{discordgo.PermissionManageMessages},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user to warn",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "reason",
				Description: "The reason of the warn",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Warn(ctx.GuildID, request(ctx, args, "user"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
