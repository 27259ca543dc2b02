package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func timeoutCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "timeout",
		Aliases:     []string{"timeout"},
		Description: "Timeouts a member in the guild",
		Usage:       "timeout <user> <duration> [reason]",
		Examples:    []string{"timeout @oxi 1d spamming"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionVoiceMuteMembers},
		BotPerms:    []int64{discordgo.PermissionVoiceMuteMembers},
		Args: []command.Argument{
			{
				Name:        "member",
				Description: "The member to timeout",
				Required:    true,
				Type:        command.ArgMember,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "duration",
				Description: "The duration of the timeout",
				Required:    true,
				Type:        command.ArgDuration,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "reason",
				Description: "The reason of the timeout",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Timeout(ctx.GuildID, request(ctx, args, "member"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}

func untimeoutCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "untimeout",
		Aliases:     []string{"untimeout"},
		Description: "Removes timeout from a member in the guild",
		Usage:       "untimeout <member> [reason]",
		Examples:    []string{"untimeout @oxi"},
		Category:    "moderation",
		Slash:       true,
		Args: []command.Argument{
			{
				Name:        "member",
				Description: "The member to untimeout",
				Required:    true,
				Type:        command.ArgMember,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "reason",
				Description: "The reason of the untimeout",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Untimeout(ctx.GuildID, request(ctx, args, "member"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
