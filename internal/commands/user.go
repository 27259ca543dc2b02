package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

func userCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "user",
		Aliases:     []string{"user", "u", "userinfo"},
		Description: "Displays info about a user",
		Usage:       "u [user]",
		Examples:    []string{"u", "u @oxi#6219"},
		Category:    "info",
		Slash:       true,
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user to display info about",
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			user := invokerOrArg(ctx, args, "user")
			if user == nil {
				return
			}
			now := d.opts.now()

			fields := []*discordgo.MessageEmbedField{}
			if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
				fields = append(fields, &discordgo.MessageEmbedField{
					Name:   "Created at:",
					Value:  fmt.Sprintf("%s\n(%s ago)", utils.UnixTimestamp(created), utils.FormatDuration(now.Sub(created))),
					Inline: true,
				})
			}

			member := ctx.Member
			if args.UserID("user") != "" && args.UserID("user") != ctx.InvokerID() {
				member, _ = d.opts.member(ctx.GuildID, user.ID)
			}
			if member != nil {
				if !member.JoinedAt.IsZero() {
					fields = append(fields, &discordgo.MessageEmbedField{
						Name:   "Joined at:",
						Value:  fmt.Sprintf("%s\n(%s ago)", utils.UnixTimestamp(member.JoinedAt), utils.FormatDuration(now.Sub(member.JoinedAt))),
						Inline: true,
					})
				}
				roleList := "User has no roles"
				if len(member.Roles) > 0 {
					mentions := make([]string, len(member.Roles))
					for i, id := range member.Roles {
						mentions[i] = utils.RoleMention(id)
					}
					roleList = strings.Join(mentions, " ")
				}
				fields = append(fields, &discordgo.MessageEmbedField{
					Name:  fmt.Sprintf("Roles[%d]", len(member.Roles)),
					Value: roleList,
				})
			}

			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Color:       utils.Colors.Base(),
				Description: utils.UserMention(user.ID),
				Author: &discordgo.MessageEmbedAuthor{
					Name:    displayName(user),
					IconURL: user.AvatarURL(""),
				},
				Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
				Fields:    fields,
				Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + user.ID},
				Timestamp: now.Format(time.RFC3339),
			})
		},
	}
}
