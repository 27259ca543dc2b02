package commands

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

func purgeCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "purge",
		Aliases:     []string{"purge"},
		Description: "Removes a specified number of messages",
		Usage:       "purge <count> [user]",
		Examples:    []string{"purge 100 @oxi", "purge 100"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionManageMessages},
		BotPerms:    []int64{discordgo.PermissionManageMessages},
		Args: []command.Argument{
			{
				Name:        "count",
				Description: "Amount of messages to search/remove (min: 0, max: 100)",
				Required:    true,
				Type:        command.ArgInt,
				SlashType:   discordgo.ApplicationCommandOptionInteger,
			},
			{
				Name:        "user",
				Description: "The user whose messages will be removed",
				Type:        command.ArgUser,
				SlashType:   discordgo.ApplicationCommandOptionUser,
			},
		},
		Execute: func(ctx *command.Context, args command.Args) {
			count := args.Int("count")
			if count < 1 || count > 100 {
				ctx.ReplyEmbed(&discordgo.MessageEmbed{
					Color: utils.Colors.Error(),
					Description: fmt.Sprintf(
						"Invalid count provided (%s), must be between 1 and 100}",
						utils.InlineCode(strconv.Itoa(count)),
					),
				})
				return
			}

			messages, err := d.opts.messagesBefore(ctx.ChannelID, ctx.TriggerMessageID(), count)
			if err != nil {
				d.Logger.Error("failed to fetch messages for purge", "channel", ctx.ChannelID, "err", err)
				ctx.ReplyEmbed(&discordgo.MessageEmbed{
					Color:       utils.Colors.Error(),
					Description: "An error has occured while deleting messages",
				})
				return
			}

			victimID := args.UserID("user")
			ids := make([]string, 0, len(messages))
			for _, m := range messages {
				if victimID != "" && (m.Author == nil || m.Author.ID != victimID) {
					continue
				}
				ids = append(ids, m.ID)
			}
			if victimID != "" && len(ids) == 0 {
				ctx.ReplyEmbed(&discordgo.MessageEmbed{
					Color:       utils.Colors.Info(),
					Description: fmt.Sprintf("No messages from %s found in specified range", utils.UserMention(victimID)),
				})
				return
			}

			if err := d.opts.bulkDelete(ctx.ChannelID, ids); err != nil {
				d.Logger.Error("bulk delete failed", "channel", ctx.ChannelID, "err", err)
				ctx.ReplyEmbed(&discordgo.MessageEmbed{
					Color:       utils.Colors.Error(),
					Description: "An error has occured while deleting messages",
				})
				return
			}

			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Color:       utils.Colors.Ok(),
				Description: fmt.Sprintf("Successfully removed %s messages", utils.InlineCode(strconv.Itoa(len(ids)))),
			})
			d.emit(moderation.Event{
				Type:        store.TypePurge,
				GuildID:     ctx.GuildID,
				VictimID:    victimID,
				ModeratorID: ctx.InvokerID(),
				Reason:      fmt.Sprintf("Removed messages: %d", len(ids)),
			})
		},
	}
}
