// Package events relays guild activity to the configured log channels:
// message edits and deletions, channel lifecycle, nickname and role
// changes, and join-time bookkeeping.
package events

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// Store is the slice of the store the relay reads.
type Store interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	PunishmentsForUser(guildID, victimID string) ([]store.Punishment, error)
}

// Relay forwards guild events to the per-guild log channels.
type Relay struct {
	Store  Store
	Logger *log.Logger
	// BotID filters out the bot's own messages.
	BotID string

	opts relayOpts
}

type relayOpts struct {
	sendEmbed func(channelID string, embed *discordgo.MessageEmbed) error
	addRole   func(guildID, userID, roleID string) error
	now       func() time.Time
}

// NewRelay wires a relay over a live session.
func NewRelay(s *discordgo.Session, st Store, logger *log.Logger, botID string) *Relay {
	return &Relay{
		Store:  st,
		Logger: logger,
		BotID:  botID,
		opts: relayOpts{
			sendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
				_, err := s.ChannelMessageSendEmbed(channelID, embed)
				return err
			},
			addRole: func(guildID, userID, roleID string) error {
				return s.GuildMemberRoleAdd(guildID, userID, roleID)
			},
			now: time.Now,
		},
	}
}

// messageLogChannel returns the guild's message log channel, or "".
func (r *Relay) messageLogChannel(guildID string) string {
	cfg, err := r.Store.GuildConfig(guildID)
	if err != nil {
		r.Logger.Errorf("failed to load guild config for %s: %v", guildID, err)
		return ""
	}
	return cfg.MessageLogChan
}

func (r *Relay) otherLogChannel(guildID string) string {
	cfg, err := r.Store.GuildConfig(guildID)
	if err != nil {
		r.Logger.Errorf("failed to load guild config for %s: %v", guildID, err)
		return ""
	}
	return cfg.OtherLogChan
}

func (r *Relay) send(channelID string, embed *discordgo.MessageEmbed) {
	if err := r.opts.sendEmbed(channelID, embed); err != nil {
		r.Logger.Warnf("failed to post log embed to %s: %v", channelID, err)
	}
}

// contentFields splits message content into embed-sized chunks, one field
// per chunk.
func contentFields(label, content string) []*discordgo.MessageEmbedField {
	chunks := utils.ChunkString(content, 1000)
	fields := make([]*discordgo.MessageEmbedField, len(chunks))
	for i, chunk := range chunks {
		if chunk == "" {
			chunk = "None"
		}
		fields[i] = &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s [%d]", label, i),
			Value: utils.InlineCode(chunk),
		}
	}
	return fields
}

// HandleMessageDelete logs deleted messages. The content is only known
// when the message was still in the state cache.
func (r *Relay) HandleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	msg := m.BeforeDelete
	if msg == nil || msg.Author == nil || msg.Author.ID == r.BotID {
		return
	}
	channelID := r.messageLogChannel(m.GuildID)
	if channelID == "" {
		return
	}
	r.send(channelID, &discordgo.MessageEmbed{
		Color:       utils.Colors.Error(),
		Title:       "Message deleted",
		Description: "Author: " + utils.UserMention(msg.Author.ID),
		Fields:      contentFields("Contents", msg.Content),
	})
}

// HandleMessageUpdate logs edits with the old and new contents side by
// side, when the previous version was cached.
func (r *Relay) HandleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	channelID := r.messageLogChannel(m.GuildID)
	if channelID == "" {
		return
	}

	var fields []*discordgo.MessageEmbedField
	if m.BeforeUpdate != nil {
		fields = append(fields, contentFields("Old contents", m.BeforeUpdate.Content)...)
	}
	fields = append(fields, contentFields("New contents", m.Content)...)

	r.send(channelID, &discordgo.MessageEmbed{
		Color:       utils.Colors.Error(),
		Title:       "Message updated",
		Description: "Author: " + utils.UserMention(m.Author.ID),
		Fields:      fields,
	})
}

// HandleChannelCreate logs channel creation to the other-log channel.
func (r *Relay) HandleChannelCreate(s *discordgo.Session, c *discordgo.ChannelCreate) {
	if c.GuildID == "" {
		return
	}
	channelID := r.otherLogChannel(c.GuildID)
	if channelID == "" {
		return
	}
	r.send(channelID, &discordgo.MessageEmbed{
		Color:       utils.Colors.Base(),
		Title:       "Channel created",
		Description: utils.ChannelMention(c.ID),
	})
}

// HandleChannelDelete logs channel deletion to the other-log channel.
func (r *Relay) HandleChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	if c.GuildID == "" {
		return
	}
	channelID := r.otherLogChannel(c.GuildID)
	if channelID == "" {
		return
	}
	r.send(channelID, &discordgo.MessageEmbed{
		Color:       utils.Colors.Base(),
		Title:       "Channel deleted",
		Description: utils.ChannelMention(c.ID),
	})
}

// HandleMemberUpdate logs nickname changes, or role changes when the
// nickname is unchanged.
func (r *Relay) HandleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.BeforeUpdate == nil || m.User == nil {
		return
	}
	channelID := r.otherLogChannel(m.GuildID)
	if channelID == "" {
		return
	}

	if m.BeforeUpdate.Nick != m.Nick {
		r.send(channelID, &discordgo.MessageEmbed{
			Color:       utils.Colors.Base(),
			Title:       "Nick change",
			Description: "User: " + utils.UserMention(m.User.ID),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Old", Value: utils.InlineCode(nickOrNone(m.BeforeUpdate.Nick)), Inline: true},
				{Name: "New", Value: utils.InlineCode(nickOrNone(m.Nick)), Inline: true},
			},
		})
		return
	}

	for _, roleID := range m.BeforeUpdate.Roles {
		if !containsRole(m.Roles, roleID) {
			r.send(channelID, &discordgo.MessageEmbed{
				Color:       utils.Colors.Base(),
				Title:       "Removed role",
				Description: "From user: " + utils.UserMention(m.User.ID),
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Role", Value: utils.RoleMention(roleID)},
				},
			})
		}
	}
	for _, roleID := range m.Roles {
		if !containsRole(m.BeforeUpdate.Roles, roleID) {
			r.send(channelID, &discordgo.MessageEmbed{
				Color:       utils.Colors.Base(),
				Title:       "Added role",
				Description: "To user: " + utils.UserMention(m.User.ID),
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Role", Value: utils.RoleMention(roleID)},
				},
			})
		}
	}
}

// HandleMemberAdd assigns the configured join roles and re-applies the
// muted role when the member rejoined with an active mute on record.
func (r *Relay) HandleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	cfg, err := r.Store.GuildConfig(m.GuildID)
	if err != nil {
		r.Logger.Errorf("failed to load guild config for %s: %v", m.GuildID, err)
		return
	}

	for _, roleID := range cfg.JoinRoles {
		if err := r.opts.addRole(m.GuildID, m.User.ID, roleID); err != nil {
			r.Logger.Warnf("failed to assign join role %s in %s: %v", roleID, m.GuildID, err)
		}
	}

	if cfg.MutedRole == "" {
		return
	}
	if r.hasActiveMute(m.GuildID, m.User.ID) {
		if err := r.opts.addRole(m.GuildID, m.User.ID, cfg.MutedRole); err != nil {
			r.Logger.Warnf("failed to re-apply muted role in %s: %v", m.GuildID, err)
		}
	}
}

// hasActiveMute reports whether a permanent or still-running mute exists
// for the user.
func (r *Relay) hasActiveMute(guildID, userID string) bool {
	rows, err := r.Store.PunishmentsForUser(guildID, userID)
	if err != nil {
		r.Logger.Errorf("failed to load punishments for %s: %v", userID, err)
		return false
	}
	now := r.opts.now()
	for _, row := range rows {
		if row.Type != store.TypeMute || row.Handled {
			continue
		}
		if row.Duration == nil || row.ExpiresAt().After(now) {
			return true
		}
	}
	return false
}

func nickOrNone(nick string) string {
	if nick == "" {
		return "None"
	}
	return nick
}

func containsRole(roles []string, id string) bool {
	for _, r := range roles {
		if r == id {
			return true
		}
	}
	return false
}
