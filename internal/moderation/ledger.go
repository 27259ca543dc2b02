package moderation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
)

// LedgerStore is the slice of the store the ledger writes through.
type LedgerStore interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	CreatePunishment(p *store.Punishment) error
}

// Ledger consumes punishment events, inserts ledger rows and posts the
// moderation-log entry. Row creation and log posting are independent: an
// event may request a log message without a row (purge) and a guild with
// no log channel still gets its rows.
type Ledger struct {
	Store  LedgerStore
	Logger *log.Logger

	opts ledgerOpts
}

type ledgerOpts struct {
	sendEmbed func(channelID string, embed *discordgo.MessageEmbed) error
	sendText  func(channelID, content string) error
}

// NewLedger wires a ledger posting through the session.
func NewLedger(s *discordgo.Session, st LedgerStore, logger *log.Logger) *Ledger {
	return &Ledger{
		Store:  st,
		Logger: logger,
		opts: ledgerOpts{
			sendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
				_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
					Embeds:          []*discordgo.MessageEmbed{embed},
					AllowedMentions: &discordgo.MessageAllowedMentions{},
				})
				return err
			},
			sendText: func(channelID, content string) error {
				_, err := s.ChannelMessageSend(channelID, content)
				return err
			},
		},
	}
}

// Listen drains the event channel until it closes. Run on its own
// goroutine; Handle does the per-event work.
func (l *Ledger) Listen(events <-chan Event) {
	for ev := range events {
		l.Handle(ev)
	}
}

// Handle records one punishment event.
func (l *Ledger) Handle(ev Event) {
	caseID := ev.CaseID
	var insertFailed bool
	if ev.CreateEntry {
		row := &store.Punishment{
			Type:     ev.Type,
			GuildID:  ev.GuildID,
			VictimID: ev.VictimID,
			ModID:    ev.ModeratorID,
			Reason:   ev.Reason,
			Duration: expiryMillis(ev.Expiry),
			Handled:  ev.Handled,
		}
		if err := l.Store.CreatePunishment(row); err != nil {
			l.Logger.Errorf("failed to create ledger row: %v", err)
			insertFailed = true
		} else {
			caseID = row.ID
		}
	}

	cfg, err := l.Store.GuildConfig(ev.GuildID)
	if err != nil {
		l.Logger.Errorf("failed to load guild config for %s: %v", ev.GuildID, err)
		return
	}
	if cfg.ModerationLogChan == "" {
		return
	}
	if insertFailed {
		_ = l.opts.sendText(cfg.ModerationLogChan, "An error occured while trying to create modlog")
		return
	}
	if err := l.opts.sendEmbed(cfg.ModerationLogChan, ModlogEmbed(caseID, ev)); err != nil {
		l.Logger.Errorf("failed to post modlog entry: %v", err)
	}
}
