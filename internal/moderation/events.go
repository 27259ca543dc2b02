// Package moderation implements the punishment pipeline: the action
// functions commands call, the ledger that records them, infraction
// accrual with threshold escalation, and the expiry sweep that reverses
// temporary punishments.
package moderation

import (
	"time"

	"github.com/oxi1224/WhiteHatMod/internal/store"
)

// Event is one punishment occurrence, carried on a typed channel from
// whoever performed the action to the ledger writer.
type Event struct {
	Type        store.PunishmentType
	GuildID     string
	VictimID    string
	ModeratorID string
	Reason      string
	// Expiry is nil for permanent or instantaneous punishments.
	Expiry *time.Time
	// CreateEntry controls whether the ledger inserts a row, separately
	// from posting the log message. Purge events log without a row.
	CreateEntry bool
	// Handled marks the row resolved on insert, used for closing entries.
	Handled bool
	// CaseID is the ledger row id to reference when CreateEntry is false.
	CaseID int
}

// NewEventChannel returns the buffered channel the ledger consumes.
// Emitters must never block the dispatch path on a slow consumer.
func NewEventChannel() chan Event {
	return make(chan Event, 64)
}

// expiryMillis converts an expiry instant into the ledger's storage form.
func expiryMillis(expiry *time.Time) *int64 {
	if expiry == nil || expiry.IsZero() {
		return nil
	}
	ms := expiry.UnixMilli()
	return &ms
}
