package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreatePunishment inserts a new ledger row and fills in its case id.
func (s *Store) CreatePunishment(p *Punishment) error {
	if p.Reason == "" {
		p.Reason = "N/A"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExec(`
		INSERT INTO punishments (type, guild_id, victim_id, mod_id, reason, duration, handled, created_at)
		VALUES (:type, :guild_id, :victim_id, :mod_id, :reason, :duration, :handled, :created_at)`, p)
	if err != nil {
		return fmt.Errorf("failed to create punishment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read punishment id: %w", err)
	}
	p.ID = int(id)
	return nil
}

// Punishment fetches a ledger row by case id. Returns nil when absent.
func (s *Store) Punishment(id int) (*Punishment, error) {
	var p Punishment
	err := s.db.Get(&p, `SELECT * FROM punishments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment: %w", err)
	}
	return &p, nil
}

// SavePunishment persists the handled flag of an existing row.
func (s *Store) SavePunishment(p *Punishment) error {
	_, err := s.db.Exec(`UPDATE punishments SET handled = ? WHERE id = ?`, p.Handled, p.ID)
	if err != nil {
		return fmt.Errorf("failed to save punishment: %w", err)
	}
	return nil
}

// DuePunishments returns unhandled reversible rows (bans, mutes,
// infractions) whose expiry falls inside now+lookahead. The lookahead
// window keeps boundary rows from slipping past a sweep.
func (s *Store) DuePunishments(now time.Time, lookahead time.Duration) ([]Punishment, error) {
	var rows []Punishment
	err := s.db.Select(&rows, `
		SELECT * FROM punishments
		WHERE handled = 0
		  AND type IN (?, ?, ?)
		  AND duration IS NOT NULL
		  AND duration <= ?
		ORDER BY id`,
		TypeBan, TypeMute, TypeInfraction, now.Add(lookahead).UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query due punishments: %w", err)
	}
	return rows, nil
}

// CountOpenInfractions counts non-expired, unhandled infractions for the
// victim in the guild.
func (s *Store) CountOpenInfractions(guildID, victimID string, now time.Time) (int, error) {
	var count int
	err := s.db.Get(&count, `
		SELECT COUNT(*) FROM punishments
		WHERE guild_id = ? AND victim_id = ? AND type = ?
		  AND handled = 0 AND duration IS NOT NULL AND duration > ?`,
		guildID, victimID, TypeInfraction, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to count infractions: %w", err)
	}
	return count, nil
}

// MarkInfractionsHandled closes every open, non-expired infraction for the
// victim in one bulk update. Used after a threshold auto-ban.
func (s *Store) MarkInfractionsHandled(guildID, victimID string, now time.Time) error {
	_, err := s.db.Exec(`
		UPDATE punishments SET handled = 1
		WHERE guild_id = ? AND victim_id = ? AND type = ?
		  AND handled = 0 AND duration IS NOT NULL AND duration > ?`,
		guildID, victimID, TypeInfraction, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to mark infractions handled: %w", err)
	}
	return nil
}

// PunishmentsForUser lists the victim's ledger rows, newest first.
func (s *Store) PunishmentsForUser(guildID, victimID string) ([]Punishment, error) {
	var rows []Punishment
	err := s.db.Select(&rows, `
		SELECT * FROM punishments
		WHERE guild_id = ? AND victim_id = ?
		ORDER BY id DESC`, guildID, victimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list punishments: %w", err)
	}
	return rows, nil
}
