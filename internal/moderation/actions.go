package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/oxi1224/WhiteHatMod/internal/store"
	"github.com/oxi1224/WhiteHatMod/internal/utils"
)

// Kind classifies an action outcome for reply formatting.
type Kind int

const (
	Success Kind = iota
	Info
	Error
)

// Response is the typed result of a moderation action. Precondition
// failures come back as responses, never as errors.
type Response struct {
	Kind    Kind
	Message string
}

func errorResponse(format string, args ...any) Response {
	return Response{Kind: Error, Message: fmt.Sprintf(format, args...)}
}

func infoResponse(format string, args ...any) Response {
	return Response{Kind: Info, Message: fmt.Sprintf(format, args...)}
}

func successResponse(format string, args ...any) Response {
	return Response{Kind: Success, Message: fmt.Sprintf(format, args...)}
}

// Request carries the target and parameters of one moderation action.
type Request struct {
	VictimID    string
	ModeratorID string
	Reason      string
	// Expiry is the absolute end instant; zero means permanent.
	Expiry time.Time
	// DeleteDays is the message-deletion window for bans.
	DeleteDays int
}

func (r Request) reason() string {
	if r.Reason == "" {
		return "N/A"
	}
	return r.Reason
}

// GuildConfigSource is the slice of the store the actions need.
type GuildConfigSource interface {
	GuildConfig(guildID string) (*store.GuildConfig, error)
}

// Actions performs moderation against the chat platform. Remote calls go
// through function fields so tests can swap them out.
type Actions struct {
	Configs GuildConfigSource
	Logger  *log.Logger
	Events  chan<- Event

	opts actionOpts
}

type actionOpts struct {
	guild       func(guildID string) (*discordgo.Guild, error)
	member      func(guildID, userID string) (*discordgo.Member, error)
	user        func(userID string) (*discordgo.User, error)
	bans        func(guildID string) ([]*discordgo.GuildBan, error)
	roles       func(guildID string) ([]*discordgo.Role, error)
	createBan   func(guildID, userID, reason string, deleteDays int) error
	removeBan   func(guildID, userID string) error
	kick        func(guildID, userID, reason string) error
	addRole     func(guildID, userID, roleID string) error
	removeRole  func(guildID, userID, roleID string) error
	setTimeout  func(guildID, userID string, until *time.Time) error
	sendDM      func(userID, content string) error
	permissions func(guild *discordgo.Guild, member *discordgo.Member) int64
	now         func() time.Time
}

func defaultActionOpts(s *discordgo.Session) actionOpts {
	return actionOpts{
		guild: func(guildID string) (*discordgo.Guild, error) {
			if s.State != nil {
				if g, err := s.State.Guild(guildID); err == nil {
					return g, nil
				}
			}
			return s.Guild(guildID)
		},
		member: func(guildID, userID string) (*discordgo.Member, error) {
			return s.GuildMember(guildID, userID)
		},
		user: func(userID string) (*discordgo.User, error) {
			return s.User(userID)
		},
		bans: func(guildID string) ([]*discordgo.GuildBan, error) {
			return s.GuildBans(guildID, 0, "", "")
		},
		roles: func(guildID string) ([]*discordgo.Role, error) {
			return s.GuildRoles(guildID)
		},
		createBan: func(guildID, userID, reason string, deleteDays int) error {
			return s.GuildBanCreateWithReason(guildID, userID, reason, deleteDays)
		},
		removeBan: func(guildID, userID string) error {
			return s.GuildBanDelete(guildID, userID)
		},
		kick: func(guildID, userID, reason string) error {
			return s.GuildMemberDeleteWithReason(guildID, userID, reason)
		},
		addRole: func(guildID, userID, roleID string) error {
			return s.GuildMemberRoleAdd(guildID, userID, roleID)
		},
		removeRole: func(guildID, userID, roleID string) error {
			return s.GuildMemberRoleRemove(guildID, userID, roleID)
		},
		setTimeout: func(guildID, userID string, until *time.Time) error {
			return s.GuildMemberTimeout(guildID, userID, until)
		},
		sendDM: func(userID, content string) error {
			ch, err := s.UserChannelCreate(userID)
			if err != nil {
				return err
			}
			_, err = s.ChannelMessageSend(ch.ID, content)
			return err
		},
		permissions: utils.MemberPermissions,
		now:         time.Now,
	}
}

// NewActions wires the action set over a live session. Punishment events
// are emitted on events for the ledger to record.
func NewActions(s *discordgo.Session, configs GuildConfigSource, logger *log.Logger, events chan<- Event) *Actions {
	return &Actions{
		Configs: configs,
		Logger:  logger,
		Events:  events,
		opts:    defaultActionOpts(s),
	}
}

func (a *Actions) emit(ev Event) {
	if a.Events == nil {
		return
	}
	select {
	case a.Events <- ev:
	default:
		a.Logger.Warn("punishment event dropped, ledger channel full")
	}
}

// victimHandle is a member when the victim is in the guild, else a bare user.
type victimHandle struct {
	id     string
	member *discordgo.Member
}

// resolveVictim prefers the guild member and falls back to the bare user.
func (a *Actions) resolveVictim(guildID, victimID string) (victimHandle, error) {
	if m, err := a.opts.member(guildID, victimID); err == nil && m != nil {
		return victimHandle{id: victimID, member: m}, nil
	}
	u, err := a.opts.user(victimID)
	if err != nil {
		return victimHandle{}, err
	}
	return victimHandle{id: u.ID}, nil
}

func (a *Actions) isStaff(guild *discordgo.Guild, member *discordgo.Member) bool {
	return utils.HasPermission(a.opts.permissions(guild, member), discordgo.PermissionManageMessages)
}

func (a *Actions) modMissing(guild *discordgo.Guild, modID string, bit int64) (Response, bool) {
	mod, err := a.opts.member(guild.ID, modID)
	if err != nil {
		return errorResponse("An error occured while resolving the moderator"), false
	}
	if !utils.HasPermission(a.opts.permissions(guild, mod), bit) {
		return errorResponse("You are missing %s permissions", utils.InlineCode(utils.PermissionName(bit))), false
	}
	return Response{}, true
}

func (a *Actions) mutedRole(guildID string) *discordgo.Role {
	roles, err := a.opts.roles(guildID)
	if err != nil {
		return nil
	}
	cfg, err := a.Configs.GuildConfig(guildID)
	if err != nil {
		cfg = nil
	}
	return findMutedRole(cfg, roles)
}

// findMutedRole resolves the guild's muted role: the configured reference
// first, then a role literally named "mute" or "muted".
func findMutedRole(cfg *store.GuildConfig, roles []*discordgo.Role) *discordgo.Role {
	if cfg != nil && cfg.MutedRole != "" {
		for _, r := range roles {
			if r.ID == cfg.MutedRole {
				return r
			}
		}
	}
	for _, r := range roles {
		if r.Name == "mute" || r.Name == "muted" {
			return r
		}
	}
	return nil
}

func (a *Actions) isBanned(guildID, userID string) (bool, error) {
	bans, err := a.opts.bans(guildID)
	if err != nil {
		return false, err
	}
	for _, b := range bans {
		if b.User != nil && b.User.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// dmNotice formats the notice sent to the victim before the action lands.
// Delivery failures are swallowed.
func (a *Actions) dmNotice(userID, verb, guildName string, req Request, temporal bool) {
	var b strings.Builder
	b.WriteString("You've been ")
	if temporal && req.Expiry.IsZero() {
		b.WriteString("permanently ")
	}
	b.WriteString(verb)
	b.WriteString(" ")
	b.WriteString(guildName)
	if temporal && !req.Expiry.IsZero() {
		b.WriteString(" until ")
		b.WriteString(utils.UnixTimestamp(req.Expiry))
	}
	b.WriteString("\nReason: ")
	b.WriteString(utils.InlineCode(req.reason()))
	_ = a.opts.sendDM(userID, b.String())
}

// Ban bans the victim, optionally temporarily and with a message-deletion
// window. Works on users no longer in the guild.
func (a *Actions) Ban(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the banning process")
	}
	victim, err := a.resolveVictim(guildID, req.VictimID)
	if err != nil {
		return errorResponse("An error occured during the banning process")
	}

	if victim.member != nil && a.isStaff(guild, victim.member) {
		return errorResponse("%s is a staff member", utils.UserMention(victim.id))
	}
	if banned, err := a.isBanned(guildID, victim.id); err != nil {
		return errorResponse("An error occured during the banning process")
	} else if banned {
		return infoResponse("%s is already banned", utils.UserMention(victim.id))
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionBanMembers); !ok {
		return res
	}

	a.dmNotice(victim.id, "banned in", guild.Name, req, true)
	if err := a.opts.createBan(guildID, victim.id, req.reason(), req.DeleteDays); err != nil {
		return errorResponse("An error occured during the banning process")
	}
	a.emit(Event{
		Type:        store.TypeBan,
		GuildID:     guildID,
		VictimID:    victim.id,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		Expiry:      optionalExpiry(req.Expiry),
		CreateEntry: true,
	})
	return successResponse("Successfully banned %s", utils.UserMention(victim.id))
}

// Unban lifts a ban. Reversals skip the staff-immunity check.
func (a *Actions) Unban(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the unbanning process")
	}
	victim, err := a.resolveVictim(guildID, req.VictimID)
	if err != nil {
		return errorResponse("An error occured during the unbanning process")
	}

	if banned, err := a.isBanned(guildID, victim.id); err != nil {
		return errorResponse("An error occured during the unbanning process")
	} else if !banned {
		return infoResponse("%s is not banned", utils.UserMention(victim.id))
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionBanMembers); !ok {
		return res
	}

	a.dmNotice(victim.id, "unbanned in", guild.Name, req, false)
	if err := a.opts.removeBan(guildID, victim.id); err != nil {
		return errorResponse("An error occured during the unbanning process")
	}
	a.emit(Event{
		Type:        store.TypeUnban,
		GuildID:     guildID,
		VictimID:    victim.id,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreateEntry: true,
	})
	return successResponse("Successfully unbanned %s", utils.UserMention(victim.id))
}

// Kick removes the victim from the guild.
func (a *Actions) Kick(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the kicking process")
	}
	victim, err := a.opts.member(guildID, req.VictimID)
	if err != nil || victim == nil {
		return infoResponse("User is not in guild")
	}

	if a.isStaff(guild, victim) {
		return errorResponse("%s is a staff member", utils.UserMention(req.VictimID))
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionKickMembers); !ok {
		return res
	}

	a.dmNotice(req.VictimID, "kicked from", guild.Name, req, false)
	if err := a.opts.kick(guildID, req.VictimID, req.reason()); err != nil {
		return errorResponse("An error occured during the kicking process")
	}
	a.emit(Event{
		Type:        store.TypeKick,
		GuildID:     guildID,
		VictimID:    req.VictimID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreateEntry: true,
	})
	return successResponse("Successfully kicked %s", utils.UserMention(req.VictimID))
}

// Mute applies the guild's muted role, optionally until an expiry instant.
func (a *Actions) Mute(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the muting process")
	}
	role := a.mutedRole(guildID)
	if role == nil {
		return errorResponse("Failed to find the muted role")
	}
	victim, err := a.opts.member(guildID, req.VictimID)
	if err != nil || victim == nil {
		return infoResponse("User is not in guild")
	}

	if a.isStaff(guild, victim) {
		return errorResponse("%s is a staff member", utils.UserMention(req.VictimID))
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionVoiceMuteMembers); !ok {
		return res
	}

	a.dmNotice(req.VictimID, "muted in", guild.Name, req, true)
	if err := a.opts.addRole(guildID, req.VictimID, role.ID); err != nil {
		return errorResponse("An error occured during the muting process")
	}
	a.emit(Event{
		Type:        store.TypeMute,
		GuildID:     guildID,
		VictimID:    req.VictimID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		Expiry:      optionalExpiry(req.Expiry),
		CreateEntry: true,
	})
	return successResponse("Successfully muted %s", utils.UserMention(req.VictimID))
}

// Unmute removes the muted role. Skips the staff-immunity check so a
// role change after the mute cannot block the reversal.
func (a *Actions) Unmute(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the unmuting process")
	}
	role := a.mutedRole(guildID)
	if role == nil {
		return errorResponse("Failed to find the muted role")
	}
	victim, err := a.opts.member(guildID, req.VictimID)
	if err != nil || victim == nil {
		return infoResponse("User is not in guild")
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionVoiceMuteMembers); !ok {
		return res
	}

	a.dmNotice(req.VictimID, "unmuted in", guild.Name, req, false)
	if err := a.opts.removeRole(guildID, req.VictimID, role.ID); err != nil {
		return errorResponse("An error occured during the unmuting process")
	}
	a.emit(Event{
		Type:        store.TypeUnmute,
		GuildID:     guildID,
		VictimID:    req.VictimID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreateEntry: true,
	})
	return successResponse("Successfully unmuted %s", utils.UserMention(req.VictimID))
}

// maximum timeout window the platform accepts
const maxTimeout = 7 * 24 * time.Hour

// Timeout times the victim out until the requested instant, capped at one
// week from now.
func (a *Actions) Timeout(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the timeout process")
	}
	victim, err := a.opts.member(guildID, req.VictimID)
	if err != nil || victim == nil {
		return infoResponse("User is not in guild")
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionVoiceMuteMembers); !ok {
		return res
	}
	// One message covers both the absent and the out-of-range case.
	if req.Expiry.IsZero() || !req.Expiry.Before(a.opts.now().Add(maxTimeout)) {
		return errorResponse("Invalid timeout duration. (min: 60s, max: 1 week)")
	}

	a.dmNotice(req.VictimID, "timed out in", guild.Name, req, true)
	until := req.Expiry
	if err := a.opts.setTimeout(guildID, req.VictimID, &until); err != nil {
		return errorResponse("An error occured during the timeout process")
	}
	a.emit(Event{
		Type:        store.TypeTimeout,
		GuildID:     guildID,
		VictimID:    req.VictimID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		Expiry:      optionalExpiry(req.Expiry),
		CreateEntry: true,
	})
	return successResponse("Successfully timed out %s", utils.UserMention(req.VictimID))
}

// Untimeout clears an active timeout.
func (a *Actions) Untimeout(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the untimeout process")
	}
	victim, err := a.opts.member(guildID, req.VictimID)
	if err != nil || victim == nil {
		return infoResponse("User is not in guild")
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionVoiceMuteMembers); !ok {
		return res
	}

	a.dmNotice(req.VictimID, "un timed out in", guild.Name, req, false)
	if err := a.opts.setTimeout(guildID, req.VictimID, nil); err != nil {
		return errorResponse("An error occured during the untimeout process")
	}
	a.emit(Event{
		Type:        store.TypeUntimeout,
		GuildID:     guildID,
		VictimID:    req.VictimID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreateEntry: true,
	})
	return successResponse("Successfully removed time out for %s", utils.UserMention(req.VictimID))
}

// Warn records a warning. The only moderation action with no remote
// effect beyond the notice, so a reason is mandatory.
func (a *Actions) Warn(guildID string, req Request) Response {
	guild, err := a.opts.guild(guildID)
	if err != nil {
		return errorResponse("An error occured during the warning process")
	}
	victim, err := a.resolveVictim(guildID, req.VictimID)
	if err != nil {
		return errorResponse("An error occured during the warning process")
	}
	if res, ok := a.modMissing(guild, req.ModeratorID, discordgo.PermissionManageMessages); !ok {
		return res
	}
	if req.Reason == "" {
		return infoResponse("Warn must have a reason")
	}

	a.dmNotice(victim.id, "warned in", guild.Name, req, false)
	a.emit(Event{
		Type:        store.TypeWarn,
		GuildID:     guildID,
		VictimID:    victim.id,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreateEntry: true,
	})
	return successResponse("Successfully warned %s", utils.UserMention(victim.id))
}

func optionalExpiry(expiry time.Time) *time.Time {
	if expiry.IsZero() {
		return nil
	}
	return &expiry
}
