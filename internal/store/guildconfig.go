package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const defaultInfractionThreshold = 4

// GuildConfig returns the configuration row for the guild, creating a
// default one if none exists yet.
func (s *Store) GuildConfig(guildID string) (*GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.Get(&cfg, `SELECT * FROM guild_configs WHERE id = ?`, guildID)
	if errors.Is(err, sql.ErrNoRows) {
		cfg = GuildConfig{
			ID:                  guildID,
			Prefix:              "!",
			JoinRoles:           StringList{},
			CommandChannels:     StringList{},
			LockdownChannels:    StringList{},
			AutomodImmune:       StringList{},
			InfractionThreshold: defaultInfractionThreshold,
		}
		if _, err := s.db.NamedExec(`
			INSERT INTO guild_configs
				(id, prefix, join_roles, command_channels, lockdown_channels, automod_immune, infraction_threshold)
			VALUES
				(:id, :prefix, :join_roles, :command_channels, :lockdown_channels, :automod_immune, :infraction_threshold)`,
			&cfg); err != nil {
			return nil, fmt.Errorf("failed to create guild config: %w", err)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return &cfg, nil
}

// SaveGuildConfig writes all mutable fields of the config row back.
func (s *Store) SaveGuildConfig(cfg *GuildConfig) error {
	_, err := s.db.NamedExec(`
		UPDATE guild_configs SET
			prefix = :prefix,
			moderation_log_channel = :moderation_log_channel,
			message_log_channel = :message_log_channel,
			other_log_channel = :other_log_channel,
			muted_role = :muted_role,
			join_roles = :join_roles,
			command_channels = :command_channels,
			lockdown_channels = :lockdown_channels,
			automod_immune = :automod_immune,
			infraction_threshold = :infraction_threshold
		WHERE id = :id`, cfg)
	if err != nil {
		return fmt.Errorf("failed to save guild config: %w", err)
	}
	return nil
}
