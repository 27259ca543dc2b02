// Package store persists guild configuration and the punishment ledger.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQL database connection
type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database and ensures all tables exist.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_configs (
		id TEXT PRIMARY KEY,
		prefix TEXT NOT NULL DEFAULT '!',
		moderation_log_channel TEXT NOT NULL DEFAULT '',
		message_log_channel TEXT NOT NULL DEFAULT '',
		other_log_channel TEXT NOT NULL DEFAULT '',
		muted_role TEXT NOT NULL DEFAULT '',
		join_roles TEXT NOT NULL DEFAULT '[]',
		command_channels TEXT NOT NULL DEFAULT '[]',
		lockdown_channels TEXT NOT NULL DEFAULT '[]',
		automod_immune TEXT NOT NULL DEFAULT '[]',
		infraction_threshold INTEGER NOT NULL DEFAULT 4
	);

	CREATE TABLE IF NOT EXISTS punishments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		guild_id TEXT NOT NULL,
		victim_id TEXT NOT NULL,
		mod_id TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT 'N/A',
		duration INTEGER,
		handled INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_punishments_guild_victim ON punishments(guild_id, victim_id);
	CREATE INDEX IF NOT EXISTS idx_punishments_handled ON punishments(handled, type);
	`

	_, err := s.db.Exec(schema)
	return err
}
