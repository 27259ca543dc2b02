package automod

import (
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxi1224/WhiteHatMod/internal/moderation"
	"github.com/oxi1224/WhiteHatMod/internal/store"
)

type fakeBanner struct {
	calls []moderation.Request
}

func (b *fakeBanner) Ban(guildID string, req moderation.Request) moderation.Response {
	b.calls = append(b.calls, req)
	return moderation.Response{Kind: moderation.Success, Message: "ok"}
}

type watcherHarness struct {
	st     *store.Store
	w      *Watcher
	banner *fakeBanner
	events chan moderation.Event

	perms   map[string]int64
	deleted []string
	dms     []*discordgo.MessageEmbed
	now     time.Time
}

func newWatcherHarness(t *testing.T, threshold int) *watcherHarness {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg, err := st.GuildConfig("guild1")
	require.NoError(t, err)
	cfg.InfractionThreshold = threshold
	cfg.AutomodImmune = store.StringList{"immune-role"}
	require.NoError(t, st.SaveGuildConfig(cfg))

	h := &watcherHarness{
		st:     st,
		banner: &fakeBanner{},
		events: make(chan moderation.Event, 8),
		perms:  map[string]int64{},
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.w = &Watcher{
		Store:  st,
		Logger: log.New(io.Discard),
		Banner: h.banner,
		Events: h.events,
		BotID:  "bot",
		opts: watcherOpts{
			permissions: func(guildID, channelID, userID string) (int64, error) {
				return h.perms[userID], nil
			},
			deleteMessage: func(channelID, messageID string) error {
				h.deleted = append(h.deleted, messageID)
				return nil
			},
			sendDM: func(userID string, embed *discordgo.MessageEmbed) error {
				h.dms = append(h.dms, embed)
				return nil
			},
			guildName: func(guildID string) string { return "Testers" },
			now:       func() time.Time { return h.now },
		},
	}
	return h
}

func (h *watcherHarness) message(content string, roles ...string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "msg1",
		GuildID:   "guild1",
		ChannelID: "chan1",
		Content:   content,
		Author:    &discordgo.User{ID: "offender"},
		Member:    &discordgo.Member{Roles: roles},
	}}
}

func (h *watcherHarness) openInfractions(t *testing.T) []store.Punishment {
	t.Helper()
	rows, err := h.st.PunishmentsForUser("guild1", "offender")
	require.NoError(t, err)
	var open []store.Punishment
	for _, r := range rows {
		if r.Type == store.TypeInfraction && !r.Handled {
			open = append(open, r)
		}
	}
	return open
}

func TestInviteMessageCostsInfraction(t *testing.T) {
	h := newWatcherHarness(t, 4)

	h.w.HandleMessage(nil, h.message("join us at https://discord.gg/abc123"))

	rows := h.openInfractions(t)
	require.Len(t, rows, 1)
	assert.Equal(t, "Automod: Sending an invite link (1/4)", rows[0].Reason)
	assert.Equal(t, "bot", rows[0].ModID)
	require.NotNil(t, rows[0].Duration)
	assert.Equal(t, h.now.Add(7*24*time.Hour).UnixMilli(), *rows[0].Duration)

	assert.Equal(t, []string{"msg1"}, h.deleted)
	assert.Empty(t, h.banner.calls)

	require.Len(t, h.dms, 1)
	assert.Equal(t, "You've gotten an infraction in Testers", h.dms[0].Title)
	assert.Contains(t, h.dms[0].Description, "You're at 1/4")

	// The ledger event references the created row.
	ev := <-h.events
	assert.Equal(t, store.TypeInfraction, ev.Type)
	assert.Equal(t, rows[0].ID, ev.CaseID)
	assert.False(t, ev.CreateEntry)
}

func TestInviteVariantsDetected(t *testing.T) {
	h := newWatcherHarness(t, 4)

	for _, content := range []string{
		"discord.gg/abc",
		"https://www.discord.gg/abc-def",
		"http://discordapp.com/invite/xyz",
		"discord.com/invite/QWERTY",
	} {
		h.w.HandleMessage(nil, h.message(content))
	}

	assert.Len(t, h.deleted, 4)
}

func TestNonInviteIgnored(t *testing.T) {
	h := newWatcherHarness(t, 4)

	h.w.HandleMessage(nil, h.message("just chatting about discord"))
	h.w.HandleMessage(nil, h.message("https://example.com/invite/abc"))

	assert.Empty(t, h.deleted)
	assert.Empty(t, h.openInfractions(t))
}

func TestImmuneRoleExempt(t *testing.T) {
	h := newWatcherHarness(t, 4)

	h.w.HandleMessage(nil, h.message("discord.gg/abc", "immune-role"))

	assert.Empty(t, h.deleted)
	assert.Empty(t, h.openInfractions(t))
}

func TestMessageManagersExempt(t *testing.T) {
	h := newWatcherHarness(t, 4)
	h.perms["offender"] = discordgo.PermissionManageMessages

	h.w.HandleMessage(nil, h.message("discord.gg/abc"))

	assert.Empty(t, h.deleted)
	assert.Empty(t, h.openInfractions(t))
}

func TestInviteThresholdEscalation(t *testing.T) {
	h := newWatcherHarness(t, 2)

	h.w.HandleMessage(nil, h.message("discord.gg/abc"))
	require.Empty(t, h.banner.calls)

	h.w.HandleMessage(nil, h.message("discord.gg/def"))

	require.Len(t, h.banner.calls, 1)
	ban := h.banner.calls[0]
	assert.Equal(t, "offender", ban.VictimID)
	assert.Equal(t, "bot", ban.ModeratorID)
	assert.Equal(t, "Automod: Reached infraction limit (2)", ban.Reason)
	assert.Equal(t, h.now.Add(3*24*time.Hour), ban.Expiry)

	assert.Empty(t, h.openInfractions(t))
	assert.Len(t, h.deleted, 2)
}
