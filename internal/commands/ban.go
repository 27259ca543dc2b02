package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func banCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "ban",
		Aliases:     []string{"ban"},
		Description: "Bans a user from the guild",
		Usage:       "ban <user> [duration] [reason] [--delete number]",
		Examples:    []string{"ban @oxi 7d spamming --delete 6", "ban @oxi spamming"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionBanMembers},
		BotPerms:    []int64{discordgo.PermissionBanMembers},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user to ban",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "duration",
				Description: "The duration of the ban",
				Type:        command.ArgDuration,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "reason",
				Description: "The reason of the ban",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "delete",
				Description: "Timespan (in days) from which to delete messages",
				Type:        command.ArgFlag,
				FlagType:    command.FlagInt,
				SlashType:   discordgo.ApplicationCommandOptionInteger,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			req := request(ctx, args, "user")
			req.DeleteDays = args.Int("delete")
			res := d.Actions.Ban(ctx.GuildID, req)
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}

func unbanCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "unban",
		Aliases:     []string{"unban"},
		Description: "Unbans a user from the guild",
		Usage:       "unban <user> [reason]",
		Examples:    []string{"unban @oxi wrong ban duration"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionBanMembers},
		BotPerms:    []int64{discordgo.PermissionBanMembers},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user to unban",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "reason",
				Description: "The reason of the unban",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Actions.Unban(ctx.GuildID, request(ctx, args, "user"))
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
