package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
)

// SweepInterval is how often due punishments are reversed. The same value
// is used as a query lookahead so a row expiring between ticks is caught
// by the tick before it.
const SweepInterval = 10 * time.Second

// ExpiryStore is the slice of the store the sweep reads and updates.
type ExpiryStore interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	DuePunishments(now time.Time, lookahead time.Duration) ([]store.Punishment, error)
	SavePunishment(p *store.Punishment) error
	CountOpenInfractions(guildID, victimID string, now time.Time) (int, error)
}

// Sweeper reverses expired temporary punishments: unban for bans, role
// removal for mutes, bookkeeping only for infractions. Reversal failures
// are swallowed so one bad row cannot halt the sweep; the handled flag is
// what prevents a row from being picked up twice.
type Sweeper struct {
	Store  ExpiryStore
	Logger *log.Logger
	Events chan<- Event
	// BotID attributes closing ledger entries to the bot's own member.
	BotID string

	opts sweepOpts
}

type sweepOpts struct {
	removeBan  func(guildID, userID string) error
	member     func(guildID, userID string) (*discordgo.Member, error)
	roles      func(guildID string) ([]*discordgo.Role, error)
	removeRole func(guildID, userID, roleID string) error
	now        func() time.Time
}

// NewSweeper wires a sweeper over a live session.
func NewSweeper(s *discordgo.Session, st ExpiryStore, logger *log.Logger, events chan<- Event, botID string) *Sweeper {
	return &Sweeper{
		Store:  st,
		Logger: logger,
		Events: events,
		BotID:  botID,
		opts: sweepOpts{
			removeBan: func(guildID, userID string) error {
				return s.GuildBanDelete(guildID, userID)
			},
			member: func(guildID, userID string) (*discordgo.Member, error) {
				return s.GuildMember(guildID, userID)
			},
			roles: func(guildID string) ([]*discordgo.Role, error) {
				return s.GuildRoles(guildID)
			},
			removeRole: func(guildID, userID, roleID string) error {
				return s.GuildMemberRoleRemove(guildID, userID, roleID)
			},
			now: time.Now,
		},
	}
}

// Sweep runs one pass over the due rows.
func (w *Sweeper) Sweep() {
	now := w.opts.now()
	rows, err := w.Store.DuePunishments(now, SweepInterval)
	if err != nil {
		w.Logger.Errorf("failed to query due punishments: %v", err)
		return
	}

	for idx := range rows {
		row := &rows[idx]
		cfg, err := w.Store.GuildConfig(row.GuildID)
		if err != nil {
			w.Logger.Errorf("failed to load guild config for %s: %v", row.GuildID, err)
			continue
		}

		logReason := "Time's up!"
		switch row.Type {
		case store.TypeBan:
			if err := w.opts.removeBan(row.GuildID, row.VictimID); err != nil {
				w.Logger.Warnf("failed to unban %s in %s: %v", row.VictimID, row.GuildID, err)
			}
		case store.TypeMute:
			w.reverseMute(cfg, row)
		case store.TypeInfraction:
			count, err := w.Store.CountOpenInfractions(row.GuildID, row.VictimID, now)
			if err != nil {
				w.Logger.Errorf("failed to count infractions: %v", err)
				count = 1
			}
			logReason = fmt.Sprintf("Time's up! (%d/%d)", count-1, cfg.InfractionThreshold)
		}

		row.Handled = true
		if err := w.Store.SavePunishment(row); err != nil {
			w.Logger.Errorf("failed to mark punishment %d handled: %v", row.ID, err)
			continue
		}

		if cfg.ModerationLogChan == "" {
			continue
		}
		w.emit(Event{
			Type:        row.Type.Reversal(),
			GuildID:     row.GuildID,
			VictimID:    row.VictimID,
			ModeratorID: w.BotID,
			Reason:      logReason,
			CreateEntry: true,
			Handled:     true,
		})
	}
}

func (w *Sweeper) reverseMute(cfg *store.GuildConfig, row *store.Punishment) {
	roles, err := w.opts.roles(row.GuildID)
	if err != nil {
		w.Logger.Warnf("failed to fetch roles for %s: %v", row.GuildID, err)
		return
	}
	role := findMutedRole(cfg, roles)
	if role == nil {
		return
	}
	// A victim who left the guild has nothing to remove.
	if m, err := w.opts.member(row.GuildID, row.VictimID); err != nil || m == nil {
		return
	}
	if err := w.opts.removeRole(row.GuildID, row.VictimID, role.ID); err != nil {
		w.Logger.Warnf("failed to unmute %s in %s: %v", row.VictimID, row.GuildID, err)
	}
}

func (w *Sweeper) emit(ev Event) {
	if w.Events == nil {
		return
	}
	select {
	case w.Events <- ev:
	default:
		w.Logger.Warn("punishment event dropped, ledger channel full")
	}
}
