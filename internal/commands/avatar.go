package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

func displayName(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// invokerOrArg resolves the optional user argument, falling back to whoever
// invoked the command.
func invokerOrArg(ctx *command.Context, args command.Args, name string) *discordgo.User {
	if u := args.User(name); u != nil {
		return u
	}
	if m := args.Member(name); m != nil && m.User != nil {
		return m.User
	}
	if ctx.Member != nil && ctx.Member.User != nil {
		return ctx.Member.User
	}
	return ctx.Author
}

func avatarCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "avatar",
		Aliases:     []string{"avatar", "av"},
		Description: "Displays a user's avatar",
		Usage:       "av [user]",
		Examples:    []string{"av", "av @oxi#6219"},
		Category:    "info",
		Slash:       true,
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user whose avatar to display",
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			user := invokerOrArg(ctx, args, "user")
			if user == nil {
				return
			}
			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Color: utils.Colors.Base(),
				Title: displayName(user) + "'s Avatar",
				Image: &discordgo.MessageEmbedImage{
					URL: user.AvatarURL("4096"),
				},
				Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + user.ID},
				Timestamp: d.opts.now().Format(time.RFC3339),
			})
		},
	}
}
