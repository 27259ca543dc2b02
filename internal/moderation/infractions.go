package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// autoBanDuration is the length of the temporary ban issued when a victim
// reaches the guild's infraction threshold.
const autoBanDuration = 3 * 24 * time.Hour

// InfractionStore is the slice of the store the infraction flow uses.
type InfractionStore interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
	CountOpenInfractions(guildID, victimID string, now time.Time) (int, error)
	MarkInfractionsHandled(guildID, victimID string, now time.Time) error
	CreatePunishment(p *store.Punishment) error
	Punishment(id int) (*store.Punishment, error)
	SavePunishment(p *store.Punishment) error
}

// Banner issues the escalation ban. Satisfied by *Actions.
type Banner interface {
	Ban(guildID string, req Request) Response
}

// Infractions implements strike accrual with threshold escalation and
// removal by case id.
//
// Accrual is read-count-then-escalate with no serialization: two
// near-simultaneous additions for the same victim can both read the same
// count and one escalation can be missed or doubled. Inherited behavior,
// kept as is.
type Infractions struct {
	Store  InfractionStore
	Logger *log.Logger
	Banner Banner
	Events chan<- Event
	// BotID attributes escalation bans to the bot's own member.
	BotID string

	opts infractionOpts
}

type infractionOpts struct {
	guildName func(guildID string) string
	sendDM    func(userID string, embed *discordgo.MessageEmbed) error
	now       func() time.Time
}

// NewInfractions wires the infraction flow over a live session.
func NewInfractions(s *discordgo.Session, st InfractionStore, banner Banner, logger *log.Logger, events chan<- Event, botID string) *Infractions {
	return &Infractions{
		Store:  st,
		Logger: logger,
		Banner: banner,
		Events: events,
		BotID:  botID,
		opts: infractionOpts{
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
			sendDM: func(userID string, embed *discordgo.MessageEmbed) error {
				ch, err := s.UserChannelCreate(userID)
				if err != nil {
					return err
				}
				_, err = s.ChannelMessageSendEmbed(ch.ID, embed)
				return err
			},
			now: time.Now,
		},
	}
}

func (i *Infractions) emit(ev Event) {
	if i.Events == nil {
		return
	}
	select {
	case i.Events <- ev:
	default:
		i.Logger.Warn("punishment event dropped, ledger channel full")
	}
}

// Add records a new infraction expiring at the given instant. Reaching
// the guild's threshold issues an automatic temporary ban attributed to
// the bot and bulk-resolves every still-open infraction for the victim.
func (i *Infractions) Add(guildID, victimID, modID string, expiry time.Time, reason string) Response {
	cfg, err := i.Store.GuildConfig(guildID)
	if err != nil {
		i.Logger.Errorf("failed to load guild config for %s: %v", guildID, err)
		return errorResponse("An error occured during the infraction process")
	}
	now := i.opts.now()

	count, err := i.Store.CountOpenInfractions(guildID, victimID, now)
	if err != nil {
		i.Logger.Errorf("failed to count infractions: %v", err)
		return errorResponse("An error occured during the infraction process")
	}
	count++ // the row created below

	// The row is inserted here rather than by the ledger so the bulk
	// resolve on escalation sees it. The event only carries the case id
	// for log posting.
	row := &store.Punishment{
		Type:     store.TypeInfraction,
		GuildID:  guildID,
		VictimID: victimID,
		ModID:    modID,
		Reason:   reason,
		Duration: expiryMillis(&expiry),
	}
	if err := i.Store.CreatePunishment(row); err != nil {
		i.Logger.Errorf("failed to create infraction row: %v", err)
		return errorResponse("An error occured during the infraction process")
	}
	i.emit(Event{
		Type:        store.TypeInfraction,
		GuildID:     guildID,
		VictimID:    victimID,
		ModeratorID: modID,
		Reason:      reason,
		Expiry:      &expiry,
		CaseID:      row.ID,
	})

	i.notifyVictim(victimID, "You've gotten an infraction in "+i.opts.guildName(guildID), count, cfg.InfractionThreshold, reason)

	if count >= cfg.InfractionThreshold {
		res := i.Banner.Ban(guildID, Request{
			VictimID:    victimID,
			ModeratorID: i.BotID,
			Expiry:      now.Add(autoBanDuration),
			Reason:      fmt.Sprintf("Automod: Reached infraction limit (%d)", cfg.InfractionThreshold),
		})
		if res.Kind != Success {
			i.Logger.Errorf("escalation ban failed for %s: %s", victimID, res.Message)
		}
		if err := i.Store.MarkInfractionsHandled(guildID, victimID, now); err != nil {
			i.Logger.Errorf("failed to resolve infractions for %s: %v", victimID, err)
		}
	}

	return successResponse("Successfully added infraction to %s", utils.UserMention(victimID))
}

// Remove resolves one infraction by its case id. A second call on the
// same id is rejected, never double-counted.
func (i *Infractions) Remove(guildID, victimID string, caseID int, modID, reason string) Response {
	row, err := i.Store.Punishment(caseID)
	if err != nil {
		i.Logger.Errorf("failed to load punishment %d: %v", caseID, err)
		return errorResponse("Invalid modlog id specified")
	}
	if row == nil || row.Type != store.TypeInfraction || row.Handled {
		return errorResponse("Invalid modlog id specified")
	}

	row.Handled = true
	if err := i.Store.SavePunishment(row); err != nil {
		i.Logger.Errorf("failed to save punishment %d: %v", caseID, err)
		return errorResponse("An error occured during the infraction process")
	}

	cfg, err := i.Store.GuildConfig(guildID)
	if err != nil {
		i.Logger.Errorf("failed to load guild config for %s: %v", guildID, err)
		return successResponse("Successfully removed infraction from %s", utils.UserMention(victimID))
	}
	count, err := i.Store.CountOpenInfractions(guildID, victimID, i.opts.now())
	if err != nil {
		i.Logger.Errorf("failed to count infractions: %v", err)
		count = 0
	}

	i.notifyVictim(victimID, "An infraction has been removed in "+i.opts.guildName(guildID), count, cfg.InfractionThreshold, reason)

	i.emit(Event{
		Type:        store.TypeInfractionRemove,
		GuildID:     guildID,
		VictimID:    victimID,
		ModeratorID: modID,
		Reason:      reason,
		CreateEntry: true,
	})
	return successResponse("Successfully removed infraction from %s", utils.UserMention(victimID))
}

// notifyVictim direct-messages the victim their current standing.
// Delivery failures are swallowed.
func (i *Infractions) notifyVictim(victimID, title string, count, threshold int, reason string) {
	if reason == "" {
		reason = "N/A"
	}
	_ = i.opts.sendDM(victimID, &discordgo.MessageEmbed{
		Color:       utils.Colors.Base(),
		Title:       title,
		Description: fmt.Sprintf("You're at %d/%d\nReason: %s", count, threshold, utils.InlineCode(reason)),
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}
