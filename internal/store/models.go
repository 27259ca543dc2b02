package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PunishmentType identifies a ledger entry kind.
type PunishmentType string

const (
	TypeBan              PunishmentType = "BAN"
	TypeUnban            PunishmentType = "UNBAN"
	TypeKick             PunishmentType = "KICK"
	TypeMute             PunishmentType = "MUTE"
	TypeUnmute           PunishmentType = "UNMUTE"
	TypeTimeout          PunishmentType = "TIMEOUT"
	TypeUntimeout        PunishmentType = "UNTIMEOUT"
	TypeWarn             PunishmentType = "WARN"
	TypePurge            PunishmentType = "PURGE"
	TypeInfraction       PunishmentType = "INFRACTION"
	TypeInfractionRemove PunishmentType = "INFRACTION-REMOVE"
)

// Reversal returns the closing entry type written when a punishment expires.
func (t PunishmentType) Reversal() PunishmentType {
	switch t {
	case TypeBan:
		return TypeUnban
	case TypeMute:
		return TypeUnmute
	case TypeInfraction:
		return TypeInfractionRemove
	default:
		return t
	}
}

// Punishment is one row of the moderation ledger. Duration holds the unix
// millisecond expiry instant; nil means permanent or not applicable.
type Punishment struct {
	ID        int            `db:"id"`
	Type      PunishmentType `db:"type"`
	GuildID   string         `db:"guild_id"`
	VictimID  string         `db:"victim_id"`
	ModID     string         `db:"mod_id"`
	Reason    string         `db:"reason"`
	Duration  *int64         `db:"duration"`
	Handled   bool           `db:"handled"`
	CreatedAt time.Time      `db:"created_at"`
}

// ExpiresAt returns the expiry instant, or the zero time for permanent rows.
func (p *Punishment) ExpiresAt() time.Time {
	if p.Duration == nil {
		return time.Time{}
	}
	return time.UnixMilli(*p.Duration)
}

// StringList stores an ordered list of snowflake ids as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	case nil:
		*l = StringList{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Contains reports whether id is present in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// GuildConfig is one row of per-guild settings, created lazily on first access.
type GuildConfig struct {
	ID                  string     `db:"id"`
	Prefix              string     `db:"prefix"`
	ModerationLogChan   string     `db:"moderation_log_channel"`
	MessageLogChan      string     `db:"message_log_channel"`
	OtherLogChan        string     `db:"other_log_channel"`
	MutedRole           string     `db:"muted_role"`
	JoinRoles           StringList `db:"join_roles"`
	CommandChannels     StringList `db:"command_channels"`
	LockdownChannels    StringList `db:"lockdown_channels"`
	AutomodImmune       StringList `db:"automod_immune"`
	InfractionThreshold int        `db:"infraction_threshold"`
}
