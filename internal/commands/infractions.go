package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
)

func addInfractionCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "addinfraction",
		Aliases:     []string{"addinfraction", "add_infraction", "addinf", "add_inf"},
		Description: "Adds an infraction to a user",
		Usage:       "addinfraction <user> <duration> [reason]",
		Examples:    []string{"addinfraction @oxi 7d spamming"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionBanMembers},
		BotPerms:    []int64{discordgo.PermissionBanMembers},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user to who the infraction will be added to",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "duration",
				Description: "How long the infraction should last",
				Required:    true,
				Type:        command.ArgDuration,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
			{
				Name:        "reason",
				Description: "The reason of the infraction",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Infractions.Add(
				ctx.GuildID,
				args.UserID("user"),
				ctx.InvokerID(),
				args.Time("duration"),
				args.String("reason"),
			)
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}

func removeInfractionCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "removeinfraction",
		Aliases:     []string{"removeinfraction", "rminf", "rm_inf", "remove_infraction"},
		Description: "Removes an infraction from a user",
		Usage:       "removeinfraction <user> <modlogid> [reason]",
		Examples:    []string{"removeinfraction @oxi 7215 remove infraction"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionBanMembers},
		BotPerms:    []int64{discordgo.PermissionBanMembers},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user from who the infraction will be removed",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "modlogid",
				Description: "ID of the modlog (use modlogs command to obtain)",
				Required:    true,
				Type:        command.ArgInt,
				SlashType:   discordgo.ApplicationCommandOptionInteger,
			},
			{
				Name:        "reason",
				Description: "The reason of the removal",
				Type:        command.ArgText,
				SlashType:   discordgo.ApplicationCommandOptionString,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			res := d.Infractions.Remove(
				ctx.GuildID,
				args.UserID("user"),
				args.Int("modlogid"),
				ctx.InvokerID(),
				args.String("reason"),
			)
			ctx.ReplyEmbed(moderation.ResponseEmbed(res))
		},
	}
}
