// Package commands declares every bot command: the metadata and argument
// schemas the dispatcher parses against, and the execute callbacks that
// call into the moderation layer.
package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/store"
)

// ConfigStore reads and writes per-guild settings.
type ConfigStore interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	SaveGuildConfig(cfg *store.GuildConfig) error
}

// ModlogSource reads a user's punishment history.
type ModlogSource interface {
	PunishmentsForUser(guildID, victimID string) ([]store.Punishment, error)
}

// ModerationActions is the action surface commands invoke. Satisfied by
// *moderation.Actions.
type ModerationActions interface {
	Ban(guildID string, req moderation.Request) moderation.Response
	Unban(guildID string, req moderation.Request) moderation.Response
	Kick(guildID string, req moderation.Request) moderation.Response
	Mute(guildID string, req moderation.Request) moderation.Response
	Unmute(guildID string, req moderation.Request) moderation.Response
	Timeout(guildID string, req moderation.Request) moderation.Response
	Untimeout(guildID string, req moderation.Request) moderation.Response
	Warn(guildID string, req moderation.Request) moderation.Response
}

// InfractionService manages manual infraction entries. Satisfied by
// *moderation.Infractions.
type InfractionService interface {
	Add(guildID, victimID, modID string, expiry time.Time, reason string) moderation.Response
	Remove(guildID, victimID string, caseID int, modID, reason string) moderation.Response
}

// Deps bundles everything the command callbacks need. Remote Discord calls
// go through the opts seams so tests can swap them out.
type Deps struct {
	Registry    *command.Registry
	Configs     ConfigStore
	Modlogs     ModlogSource
	Actions     ModerationActions
	Infractions InfractionService
	Events      chan<- moderation.Event
	Logger      *log.Logger

	opts remoteOpts
}

type remoteOpts struct {
	messagesBefore func(channelID, beforeID string, limit int) ([]*discordgo.Message, error)
	bulkDelete     func(channelID string, ids []string) error
	setOverwrite   func(channelID, roleID string, allow, deny int64) error
	sendEmbed      func(channelID string, embed *discordgo.MessageEmbed) error
	channel        func(channelID string) (*discordgo.Channel, error)
	roles          func(guildID string) ([]*discordgo.Role, error)
	member         func(guildID, userID string) (*discordgo.Member, error)
	heartbeat      func() time.Duration
	now            func() time.Time
}

func defaultRemoteOpts(s *discordgo.Session) remoteOpts {
	return remoteOpts{
		messagesBefore: func(channelID, beforeID string, limit int) ([]*discordgo.Message, error) {
			return s.ChannelMessages(channelID, limit, beforeID, "", "")
		},
		bulkDelete: func(channelID string, ids []string) error {
			return s.ChannelMessagesBulkDelete(channelID, ids)
		},
		setOverwrite: func(channelID, roleID string, allow, deny int64) error {
			return s.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, allow, deny)
		},
		sendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
			_, err := s.ChannelMessageSendEmbed(channelID, embed)
			return err
		},
		channel: func(channelID string) (*discordgo.Channel, error) {
			if s.State != nil {
				if ch, err := s.State.Channel(channelID); err == nil {
					return ch, nil
				}
			}
			return s.Channel(channelID)
		},
		roles: func(guildID string) ([]*discordgo.Role, error) {
			return s.GuildRoles(guildID)
		},
		member: func(guildID, userID string) (*discordgo.Member, error) {
			return s.GuildMember(guildID, userID)
		},
		heartbeat: func() time.Duration {
			return s.HeartbeatLatency()
		},
		now: time.Now,
	}
}

// NewDeps wires the command dependencies over a live session.
func NewDeps(
	s *discordgo.Session,
	registry *command.Registry,
	configs ConfigStore,
	modlogs ModlogSource,
	actions ModerationActions,
	infractions InfractionService,
	events chan<- moderation.Event,
	logger *log.Logger,
) *Deps {
	return &Deps{
		Registry:    registry,
		Configs:     configs,
		Modlogs:     modlogs,
		Actions:     actions,
		Infractions: infractions,
		Events:      events,
		Logger:      logger,
		opts:        defaultRemoteOpts(s),
	}
}

// All returns every command the bot ships.
func All(d *Deps) []*command.Command {
	return []*command.Command{
		pingCommand(d),
		helpCommand(d),
		avatarCommand(d),
		userCommand(d),
		configCommand(d),
		banCommand(d),
		unbanCommand(d),
		kickCommand(d),
		muteCommand(d),
		unmuteCommand(d),
		timeoutCommand(d),
		untimeoutCommand(d),
		warnCommand(d),
		purgeCommand(d),
		lockdownCommand(d),
		unlockCommand(d),
		modlogsCommand(d),
		addInfractionCommand(d),
		removeInfractionCommand(d),
	}
}

func (d *Deps) emit(ev moderation.Event) {
	if d.Events == nil {
		return
	}
	select {
	case d.Events <- ev:
	default:
		d.Logger.Warn("punishment event dropped, ledger channel full")
	}
}

// request builds a moderation request from the common user/duration/reason
// argument triple.
func request(ctx *command.Context, args command.Args, userArg string) moderation.Request {
	return moderation.Request{
		VictimID:    args.UserID(userArg),
		ModeratorID: ctx.InvokerID(),
		Reason:      args.String("reason"),
		Expiry:      args.Time("duration"),
	}
}
