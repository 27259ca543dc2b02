package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

func lockdownCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "lockdown",
		Aliases:     []string{"lockdown"},
		Description: "Locks the specified channel or all channels found in config as lockdownChannels",
		Usage:       "lockdown [channel] [reason]",
		Examples:    []string{"lockdown #general raid", "lockdown raid"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionManageChannels},
		BotPerms:    []int64{discordgo.PermissionManageChannels},
		Args:        lockdownArgs("lockdown"),
		Execute: func(ctx *command.Context, args command.Args) {
			d.runLockdown(ctx, args, true)
		},
	}
}

func unlockCommand(d *Deps) *command.Command {
	return &command.Command{
		ID:          "unlockdown",
		Aliases:     []string{"unlockdown", "unlock"},
		Description: "Unlocks the specified channel or all channels found in config as lockdownChannels",
		Usage:       "unlock [channel] [reason]",
		Examples:    []string{"unlock #general raid over", "unlockdown raid over"},
		Category:    "moderation",
		Slash:       true,
		UserPerms:   []int64{discordgo.PermissionManageChannels},
		BotPerms:    []int64{discordgo.PermissionManageChannels},
		Args:        lockdownArgs("unlock"),
		Execute: func(ctx *command.Context, args command.Args) {
			d.runLockdown(ctx, args, false)
		},
	}
}

func lockdownArgs(verb string) []command.Argument {
	return []command.Argument{
		{
			Name:        "channel",
			Description: "The channel to " + verb,
			Type:        command.ArgChannel,
			SlashType:   discordgo.ApplicationCommandOptionChannel,
		},
		{
			Name:        "reason",
			Description: "The reason of the " + verb,
			Type:        command.ArgText,
			SlashType:   discordgo.ApplicationCommandOptionString,
		},
	}
}

// runLockdown flips the @everyone SendMessages overwrite on either the
// specified channel or every configured lockdown channel.
func (d *Deps) runLockdown(ctx *command.Context, args command.Args, lock bool) {
	everyone := d.everyoneRole(ctx.GuildID)
	if everyone == nil {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Description: "Failed to find the @everyone role",
		})
		return
	}

	reason := args.String("reason")
	if reason == "" {
		reason = "N/A"
	}
	noticeEmbed := channelNotice(lock, reason, d.opts.now())

	verb, failVerb := "unlocked", "unlock"
	if lock {
		verb, failVerb = "locked", "lockdown"
	}

	if ch := args.Channel("channel"); ch != nil {
		if err := d.setLock(ch.ID, everyone.ID, lock); err != nil {
			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Color:       utils.Colors.Error(),
				Description: fmt.Sprintf("Failed to %s %s", failVerb, utils.ChannelMention(ch.ID)),
			})
			return
		}
		d.opts.sendEmbed(ch.ID, noticeEmbed)
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Ok(),
			Description: fmt.Sprintf("Successfully %s %s", verb, utils.ChannelMention(ch.ID)),
		})
		return
	}

	cfg, err := d.Configs.GuildConfig(ctx.GuildID)
	if err != nil {
		d.Logger.Error("failed to load guild config", "guild", ctx.GuildID, "err", err)
		return
	}
	if len(cfg.LockdownChannels) == 0 {
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Color:       utils.Colors.Error(),
			Description: "There are no lockdownChannels in the guild config",
		})
		return
	}

	var done, failedToFind, failed []string
	for _, channelID := range cfg.LockdownChannels {
		if _, err := d.opts.channel(channelID); err != nil {
			failedToFind = append(failedToFind, channelID)
			continue
		}
		if err := d.setLock(channelID, everyone.ID, lock); err != nil {
			failed = append(failed, channelID)
			continue
		}
		d.opts.sendEmbed(channelID, noticeEmbed)
		done = append(done, channelID)
	}

	title := "Unlock result"
	doneField, failField := "Unlocked Channels", "Failed to unlock"
	if lock {
		title = "Lockdown result"
		doneField, failField = "Locked Channels", "Failed to lockdown"
	}
	color := utils.Colors.Ok()
	if len(failedToFind) > 0 || len(failed) > 0 {
		color = utils.Colors.Info()
	}

	result := &discordgo.MessageEmbed{Color: color, Title: title}
	if len(done) > 0 {
		result.Fields = append(result.Fields, &discordgo.MessageEmbedField{
			Name: doneField, Value: mentionList(done),
		})
	}
	if len(failedToFind) > 0 {
		result.Fields = append(result.Fields, &discordgo.MessageEmbedField{
			Name: "Failed to find", Value: inlineList(failedToFind),
		})
	}
	if len(failed) > 0 {
		result.Fields = append(result.Fields, &discordgo.MessageEmbedField{
			Name: failField, Value: mentionList(failed),
		})
	}
	ctx.ReplyEmbed(result)

	if cfg.ModerationLogChan == "" {
		return
	}
	action := "UNLOCKDOWN"
	if lock {
		action = "LOCKDOWN"
	}
	d.opts.sendEmbed(cfg.ModerationLogChan, &discordgo.MessageEmbed{
		Color:     utils.Colors.Base(),
		Title:     "Action: " + action,
		Timestamp: d.opts.now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Moderator", Value: utils.UserMention(ctx.InvokerID()), Inline: true},
			{Name: "Affected Channels", Value: mentionList(done), Inline: true},
			{Name: "Reason", Value: utils.InlineCode(reason)},
		},
	})
}

func (d *Deps) setLock(channelID, everyoneID string, lock bool) error {
	if lock {
		return d.opts.setOverwrite(channelID, everyoneID, 0, discordgo.PermissionSendMessages)
	}
	return d.opts.setOverwrite(channelID, everyoneID, discordgo.PermissionSendMessages, 0)
}

func (d *Deps) everyoneRole(guildID string) *discordgo.Role {
	roles, err := d.opts.roles(guildID)
	if err != nil {
		return nil
	}
	for _, r := range roles {
		if r.Name == "@everyone" {
			return r
		}
	}
	return nil
}

func channelNotice(lock bool, reason string, now time.Time) *discordgo.MessageEmbed {
	if lock {
		return &discordgo.MessageEmbed{
			Color:       utils.Colors.Info(),
			Title:       "ℹ️ This channel has been locked",
			Description: "Reason: " + utils.InlineCode(reason),
			Timestamp:   now.Format(time.RFC3339),
		}
	}
	return &discordgo.MessageEmbed{
		Color:       utils.Colors.Ok(),
		Title:       "✅ This channel has been unlocked",
		Description: "Reason: " + utils.InlineCode(reason),
		Timestamp:   now.Format(time.RFC3339),
	}
}

func mentionList(ids []string) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = utils.ChannelMention(id)
	}
	return strings.Join(mentions, ", ")
}
