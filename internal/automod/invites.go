// Package automod watches guild messages for invite links and feeds
// offenders through the infraction pipeline.
package automod

import (
	"fmt"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

var inviteRE = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:discord(?:\.gg|app\.com/invite)/|discord\.com/invite/)([a-zA-Z0-9-]+)`)

// inviteInfractionDuration is how long an automod infraction stays open.
const inviteInfractionDuration = 7 * 24 * time.Hour

// autoBanDuration matches the infraction-threshold escalation ban.
const autoBanDuration = 3 * 24 * time.Hour

// Store is the slice of the persistence layer the watcher uses.
type Store interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	CountOpenInfractions(guildID, victimID string, now time.Time) (int, error)
	MarkInfractionsHandled(guildID, victimID string, now time.Time) error
	CreatePunishment(p *store.Punishment) error
}

// Watcher scans inbound guild messages for invite links. Offending
// messages cost a 7-day infraction attributed to the bot, escalate at
// the guild's threshold and are deleted best-effort. Members with an
// immune role or message-management permission are exempt.
type Watcher struct {
	Store  Store
	Logger *log.Logger
	Banner moderation.Banner
	Events chan<- moderation.Event
	BotID  string

	opts watcherOpts
}

type watcherOpts struct {
	permissions   func(guildID, channelID, userID string) (int64, error)
	deleteMessage func(channelID, messageID string) error
	sendDM        func(userID string, embed *discordgo.MessageEmbed) error
	guildName     func(guildID string) string
	now           func() time.Time
}

// NewWatcher wires the watcher over a live session.
func NewWatcher(s *discordgo.Session, st Store, banner moderation.Banner, logger *log.Logger, events chan<- moderation.Event, botID string) *Watcher {
	return &Watcher{
		Store:  st,
		Logger: logger,
		Banner: banner,
		Events: events,
		BotID:  botID,
		opts: watcherOpts{
			permissions: func(guildID, channelID, userID string) (int64, error) {
				return s.UserChannelPermissions(userID, channelID)
			},
			deleteMessage: func(channelID, messageID string) error {
				return s.ChannelMessageDelete(channelID, messageID)
			},
			sendDM: func(userID string, embed *discordgo.MessageEmbed) error {
				ch, err := s.UserChannelCreate(userID)
				if err != nil {
					return err
				}
				_, err = s.ChannelMessageSendEmbed(ch.ID, embed)
				return err
			},
			guildName: func(guildID string) string {
				if s.State != nil {
					if g, err := s.State.Guild(guildID); err == nil {
						return g.Name
					}
				}
				if g, err := s.Guild(guildID); err == nil {
					return g.Name
				}
				return guildID
			},
			now: time.Now,
		},
	}
}

// HandleMessage is registered as a MessageCreate handler.
func (w *Watcher) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot || m.Member == nil {
		return
	}
	if !inviteRE.MatchString(m.Content) {
		return
	}

	cfg, err := w.Store.GuildConfig(m.GuildID)
	if err != nil {
		w.Logger.Errorf("failed to load guild config for %s: %v", m.GuildID, err)
		return
	}
	for _, roleID := range m.Member.Roles {
		if cfg.AutomodImmune.Contains(roleID) {
			return
		}
	}
	if perms, err := w.opts.permissions(m.GuildID, m.ChannelID, m.Author.ID); err == nil &&
		utils.HasPermission(perms, discordgo.PermissionManageMessages) {
		return
	}

	now := w.opts.now()
	count, err := w.Store.CountOpenInfractions(m.GuildID, m.Author.ID, now)
	if err != nil {
		w.Logger.Errorf("failed to count infractions: %v", err)
		return
	}

	reason := fmt.Sprintf("Automod: Sending an invite link (%d/%d)", count+1, cfg.InfractionThreshold)
	if count < cfg.InfractionThreshold {
		expiry := now.Add(inviteInfractionDuration)
		ms := expiry.UnixMilli()
		row := &store.Punishment{
			Type:     store.TypeInfraction,
			GuildID:  m.GuildID,
			VictimID: m.Author.ID,
			ModID:    w.BotID,
			Reason:   reason,
			Duration: &ms,
		}
		if err := w.Store.CreatePunishment(row); err != nil {
			w.Logger.Errorf("failed to create infraction row: %v", err)
			return
		}
		w.emit(moderation.Event{
			Type:        store.TypeInfraction,
			GuildID:     m.GuildID,
			VictimID:    m.Author.ID,
			ModeratorID: w.BotID,
			Reason:      reason,
			Expiry:      &expiry,
			CaseID:      row.ID,
		})
		count++

		_ = w.opts.sendDM(m.Author.ID, &discordgo.MessageEmbed{
			Color:       utils.Colors.Base(),
			Title:       "You've gotten an infraction in " + w.opts.guildName(m.GuildID),
			Description: fmt.Sprintf("You're at %d/%d\nReason: %s", count, cfg.InfractionThreshold, utils.InlineCode(reason)),
			Timestamp:   time.Now().Format(time.RFC3339),
		})
	}

	if count >= cfg.InfractionThreshold {
		res := w.Banner.Ban(m.GuildID, moderation.Request{
			VictimID:    m.Author.ID,
			ModeratorID: w.BotID,
			Expiry:      now.Add(autoBanDuration),
			Reason:      fmt.Sprintf("Automod: Reached infraction limit (%d)", cfg.InfractionThreshold),
		})
		if res.Kind != moderation.Success {
			w.Logger.Errorf("escalation ban failed for %s: %s", m.Author.ID, res.Message)
		}
		if err := w.Store.MarkInfractionsHandled(m.GuildID, m.Author.ID, now); err != nil {
			w.Logger.Errorf("failed to resolve infractions for %s: %v", m.Author.ID, err)
		}
	}

	if err := w.opts.deleteMessage(m.ChannelID, m.ID); err != nil {
		w.Logger.Warnf("failed to delete invite message %s: %v", m.ID, err)
	}
}

func (w *Watcher) emit(ev moderation.Event) {
	if w.Events == nil {
		return
	}
	select {
	case w.Events <- ev:
	default:
		w.Logger.Warn("punishment event dropped, ledger channel full")
	}
}
