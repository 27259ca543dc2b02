package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func muteCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "mute",
		Aliases:     []string{"mute"},
		Description: "Mutes a member in the guild",
		Usage:       "mute <user> [duration] [reason]",
		Examples:    []string{"mute @oxi 1d spamming"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionVoiceMuteMembers},
		BotPerms:    []int64{discordgo.PermissionVoiceMuteMembers},
		Args: []command.Argument{
			{
				Name:        "member",
				Description: "The member to mute",
				Required:    true,
				Type:        command.ArgMember,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "duration",
				Description: "The duration of the mute",
				Type:        command.ArgDuration,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "reason",
				Description: "The reason of the mute",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Mute(ctx.GuildID, request(ctx, args, "member"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}

func unmuteCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "unmute",
		Aliases:     []string{"unmute"},
		Description: "Unmutes a member in the guild",
		Usage:       "unmute <user> [reason]",
		Examples:    []string{"unmute @oxi wrong duration"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionVoiceMuteMembers},
		BotPerms:    []int64{discordgo.PermissionVoiceMuteMembers},
		Args: []command.Argument{
			{
				Name:        "member",
				Description: "The member to unmute",
				Required:    true,
				Type:        command.ArgMember,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "reason",
				Description: "The reason of the unmute",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Unmute(ctx.GuildID, request(ctx, args, "member"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
