package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

const modlogsPerPage = 5

func modlogsCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "modlogs",
		Aliases:     []string{"modlogs", "punishments"},
		Description: "Shows the punishment history of a user",
		Usage:       "modlogs <user> [page]",
		Examples:    []string{"modlogs @oxi", "modlogs @oxi 2"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionBanMembers},
		Args: []command.Argument{
			{
				Name:        "user",
				Description: "The user whose modlogs to display",
				Required:    true,
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
			{
				Name:        "page",
				Description: "The page to display",
				Type:        command.ArgInt,
				SlashType:   discordgo.ApplicationCommandOptionInteger,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			entries, err := d.Modlogs.PunishmentsForUser(ctx.GuildID, args.UserID("user"))
			if err != nil {
				d.Logger.Error("failed to load modlogs", "guild", ctx.GuildID, "err", err)
				return
			}
			if len(entries) == 0 {
				ctx.ReplyEmbed(&discordgo.MessageEmbed{
					Color:       utils.Colors.Info(),
					Description: "User has no modlogs",
				})
				return
			}

			pages := (len(entries) + modlogsPerPage - 1) / modlogsPerPage
			page := args.Int("page")
			if page < 1 {
				page = 1
			}
			if page > pages {
				page = pages
			}

			start := (page - 1) * modlogsPerPage
			end := start + modlogsPerPage
			if end > len(entries) {
				end = len(entries)
			}
			ctx.ReplyEmbed(modlogsPage(entries[start:end], page, pages))
		},
	}
}

func modlogsPage(entries []store.Punishment, page, pages int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:  utils.Colors.Base(),
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d", page, pages)},
	}
	for _, p := range entries {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Type: " + string(p.Type),
			Value: modlogEntry(p),
		})
	}
	return embed
}

func modlogEntry(p store.Punishment) string {
	reason := p.Reason
	if reason == "" {
		reason = "N/A"
	}
	value := fmt.Sprintf(
		"Modlog ID: %s\nReason: %s\nModerator: %s\n",
		utils.InlineCode(strconv.Itoa(p.ID)),
		utils.InlineCode(reason),
		utils.UserMention(p.ModID),
	)
	switch p.Type {
	case store.TypeBan, store.TypeMute, store.TypeTimeout:
		if p.Duration != nil {
			expires := time.UnixMilli(*p.Duration)
			value += "Duration: " + utils.InlineCode(utils.FormatDuration(expires.Sub(p.CreatedAt))) + "\n"
			value += "Expires: " + utils.UnixTimestamp(expires) + "\n"
		} else {
			value += "Duration: " + utils.InlineCode("Permanent") + "\n"
			value += "Expires: " + utils.InlineCode("Never") + "\n"
		}
	}
	value += "Added: " + utils.UnixTimestamp(p.CreatedAt)
	return value
}
