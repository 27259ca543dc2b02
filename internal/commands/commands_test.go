package commands

import (
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/store"
)

type fakeConfigStore struct {
	cfg   *store.GuildConfig
	saved []*store.GuildConfig
}

func (f *fakeConfigStore) GuildConfig(guildID string) (*store.GuildConfig, error) {
	return f.cfg, nil
}

func (f *fakeConfigStore) SaveGuildConfig(cfg *store.GuildConfig) error {
	f.saved = append(f.saved, cfg)
	return nil
}

type fakeModlogs struct {
	rows []store.Punishment
}

func (f *fakeModlogs) PunishmentsForUser(guildID, victimID string) ([]store.Punishment, error) {
	return f.rows, nil
}

// fakeActions records the last action invoked and its request.
type fakeActions struct {
	calls []string
	reqs  []moderation.Request
	res   moderation.Response
}

func (f *fakeActions) record(name string, req moderation.Request) moderation.Response {
	f.calls = append(f.calls, name)
	f.reqs = append(f.reqs, req)
	return f.res
}

func (f *fakeActions) Ban(g string, r moderation.Request) moderation.Response {
	return f.record("ban", r)
}
func (f *fakeActions) Unban(g string, r moderation.Request) moderation.Response {
	return f.record("unban", r)
}
func (f *fakeActions) Kick(g string, r moderation.Request) moderation.Response {
	return f.record("kick", r)
}
func (f *fakeActions) Mute(g string, r moderation.Request) moderation.Response {
	return f.record("mute", r)
}
func (f *fakeActions) Unmute(g string, r moderation.Request) moderation.Response {
	return f.record("unmute", r)
}
func (f *fakeActions) Timeout(g string, r moderation.Request) moderation.Response {
	return f.record("timeout", r)
}
func (f *fakeActions) Untimeout(g string, r moderation.Request) moderation.Response {
	return f.record("untimeout", r)
}
func (f *fakeActions) Warn(g string, r moderation.Request) moderation.Response {
	return f.record("warn", r)
}

type infractionCall struct {
	guildID  string
	victimID string
	modID    string
	expiry   time.Time
	caseID   int
	reason   string
}

type fakeInfractions struct {
	added   []infractionCall
	removed []infractionCall
	res     moderation.Response
}

func (f *fakeInfractions) Add(guildID, victimID, modID string, expiry time.Time, reason string) moderation.Response {
	f.added = append(f.added, infractionCall{guildID: guildID, victimID: victimID, modID: modID, expiry: expiry, reason: reason})
	return f.res
}

func (f *fakeInfractions) Remove(guildID, victimID string, caseID int, modID, reason string) moderation.Response {
	f.removed = append(f.removed, infractionCall{guildID: guildID, victimID: victimID, modID: modID, caseID: caseID, reason: reason})
	return f.res
}

type overwriteCall struct {
	channelID string
	roleID    string
	allow     int64
	deny      int64
}

type cmdHarness struct {
	deps        *Deps
	configs     *fakeConfigStore
	modlogs     *fakeModlogs
	actions     *fakeActions
	infractions *fakeInfractions
	events      chan moderation.Event

	// replies captured from the invocation context
	replies []*discordgo.MessageEmbed
	// embeds sent straight to channels, keyed by channel id
	sent map[string][]*discordgo.MessageEmbed

	messages    []*discordgo.Message
	fetchErr    error
	deleted     [][]string
	deleteErr   error
	overwrites  []overwriteCall
	overwriteErr  error
	channels    map[string]*discordgo.Channel
	roles       []*discordgo.Role
	members     map[string]*discordgo.Member
	now         time.Time
}

func newHarness(t *testing.T) *cmdHarness {
	t.Helper()
	h := &cmdHarness{
		configs:     &fakeConfigStore{cfg: &store.GuildConfig{ID: "guild1"}},
		modlogs:     &fakeModlogs{},
		actions:     &fakeActions{res: moderation.Response{Kind: moderation.Success, Message: "ok"}},
		infractions: &fakeInfractions{res: moderation.Response{Kind: moderation.Success, Message: "ok"}},
		events:      make(chan moderation.Event, 8),
		sent:        map[string][]*discordgo.MessageEmbed{},
		channels:    map[string]*discordgo.Channel{},
		members:     map[string]*discordgo.Member{},
		roles: []*discordgo.Role{
			{ID: "guild1", Name: "@everyone"},
		},
		now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.deps = &Deps{
		Registry:    command.NewRegistry(),
		Configs:     h.configs,
		Modlogs:     h.modlogs,
		Actions:     h.actions,
		Infractions: h.infractions,
		Events:      h.events,
		Logger:      log.New(io.Discard),
		opts: remoteOpts{
			messagesBefore: func(channelID, beforeID string, limit int) ([]*discordgo.Message, error) {
				return h.messages, h.fetchErr
			},
			bulkDelete: func(channelID string, ids []string) error {
				if h.deleteErr != nil {
					return h.deleteErr
				}
				h.deleted = append(h.deleted, ids)
				return nil
			},
			setOverwrite: func(channelID, roleID string, allow, deny int64) error {
				if h.overwriteErr != nil {
					return h.overwriteErr
				}
				h.overwrites = append(h.overwrites, overwriteCall{channelID, roleID, allow, deny})
				return nil
			},
			sendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
				h.sent[channelID] = append(h.sent[channelID], embed)
				return nil
			},
			channel: func(channelID string) (*discordgo.Channel, error) {
				if ch, ok := h.channels[channelID]; ok {
					return ch, nil
				}
				return nil, discordgo.ErrStateNotFound
			},
			roles: func(guildID string) ([]*discordgo.Role, error) {
				return h.roles, nil
			},
			member: func(guildID, userID string) (*discordgo.Member, error) {
				if m, ok := h.members[userID]; ok {
					return m, nil
				}
				return nil, discordgo.ErrStateNotFound
			},
			heartbeat: func() time.Duration { return 42 * time.Millisecond },
			now:       func() time.Time { return h.now },
		},
	}
	require.NoError(t, h.deps.Registry.Register(All(h.deps)...))
	return h
}

// ctx builds a message-triggered invocation context whose replies land in
// h.replies.
func (h *cmdHarness) ctx() *command.Context {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "900",
		GuildID:   "guild1",
		ChannelID: "chan1",
		Author:    &discordgo.User{ID: "mod1", Username: "mod"},
		Member:    &discordgo.Member{Roles: []string{}},
	}}
	return command.MessageContext(nil, log.New(io.Discard), m, func(channelID string, send *discordgo.MessageSend) error {
		h.replies = append(h.replies, send.Embeds...)
		return nil
	})
}

func (h *cmdHarness) run(t *testing.T, id string, args command.Args) {
	t.Helper()
	cmd := h.deps.Registry.Get(id)
	require.NotNil(t, cmd, "command %s not registered", id)
	cmd.Execute(h.ctx(), args)
}

func TestAllCommandsRegister(t *testing.T) {
	h := newHarness(t)

	assert.Len(t, h.deps.Registry.All(), 19)
	assert.NotNil(t, h.deps.Registry.FindByAlias("punishments"))
	assert.NotNil(t, h.deps.Registry.FindByAlias("cfg"))
	assert.NotNil(t, h.deps.Registry.FindByAlias("rminf"))
	assert.NotNil(t, h.deps.Registry.FindByAlias("unlock"))
}

func TestBanCommandBuildsRequest(t *testing.T) {
	h := newHarness(t)
	expiry := h.now.Add(7 * 24 * time.Hour)

	h.run(t, "ban", command.Args{
		"user":     &discordgo.User{ID: "victim1"},
		"duration": expiry,
		"reason":   "spamming",
		"delete":   6,
	})

	require.Equal(t, []string{"ban"}, h.actions.calls)
	req := h.actions.reqs[0]
	assert.Equal(t, "victim1", req.VictimID)
	assert.Equal(t, "mod1", req.ModeratorID)
	assert.Equal(t, "spamming", req.Reason)
	assert.Equal(t, expiry, req.Expiry)
	assert.Equal(t, 6, req.DeleteDays)

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "✅")
	assert.Contains(t, h.replies[0].Description, "ok")
}

func TestMemberCommandsUseMemberArgument(t *testing.T) {
	h := newHarness(t)
	member := &discordgo.Member{User: &discordgo.User{ID: "victim1"}}

	for _, id := range []string{"kick", "mute", "unmute", "timeout", "untimeout"} {
		h.run(t, id, command.Args{"member": member, "reason": "r"})
	}
	h.run(t, "unban", command.Args{"user": &discordgo.User{ID: "victim1"}})
	h.run(t, "warn", command.Args{"user": &discordgo.User{ID: "victim1"}, "reason": "r"})

	assert.Equal(t, []string{"kick", "mute", "unmute", "timeout", "untimeout", "unban", "warn"}, h.actions.calls)
	for _, req := range h.actions.reqs {
		assert.Equal(t, "victim1", req.VictimID)
		assert.Equal(t, "mod1", req.ModeratorID)
	}
}

func TestErrorResponsesAreRelayed(t *testing.T) {
	h := newHarness(t)
	h.actions.res = moderation.Response{Kind: moderation.Error, Message: "<@victim1> is a staff member"}

	h.run(t, "ban", command.Args{"user": &discordgo.User{ID: "victim1"}})

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "❌")
	assert.Contains(t, h.replies[0].Description, "is a staff member")
}

func TestAddInfractionPassesThrough(t *testing.T) {
	h := newHarness(t)
	expiry := h.now.Add(7 * 24 * time.Hour)

	h.run(t, "addinfraction", command.Args{
		"user":     &discordgo.User{ID: "victim1"},
		"duration": expiry,
		"reason":   "spamming",
	})

	require.Len(t, h.infractions.added, 1)
	call := h.infractions.added[0]
	assert.Equal(t, "guild1", call.guildID)
	assert.Equal(t, "victim1", call.victimID)
	assert.Equal(t, "mod1", call.modID)
	assert.Equal(t, expiry, call.expiry)
	assert.Equal(t, "spamming", call.reason)
}

func TestRemoveInfractionPassesThrough(t *testing.T) {
	h := newHarness(t)

	h.run(t, "removeinfraction", command.Args{
		"user":     &discordgo.User{ID: "victim1"},
		"modlogid": 7215,
		"reason":   "appealed",
	})

	require.Len(t, h.infractions.removed, 1)
	call := h.infractions.removed[0]
	assert.Equal(t, 7215, call.caseID)
	assert.Equal(t, "victim1", call.victimID)
	assert.Equal(t, "appealed", call.reason)
}

func TestSlashPayloadsPutRequiredOptionsFirst(t *testing.T) {
	h := newHarness(t)

	for _, cmd := range h.deps.Registry.All() {
		if !cmd.Slash {
			continue
		}
		app := cmd.ApplicationCommand()
		seenOptional := false
		for _, opt := range app.Options {
			if !opt.Required {
				seenOptional = true
			} else {
				assert.False(t, seenOptional, "command %s has required option after optional", cmd.ID)
			}
		}
	}
}
