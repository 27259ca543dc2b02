package commands

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/store"
)

func TestModlogsWithoutEntries(t *testing.T) {
	h := newHarness(t)

	h.run(t, "modlogs", command.Args{"user": &discordgo.User{ID: "victim1"}})

	require.Len(t, h.replies, 1)
	assert.Equal(t, "User has no modlogs", h.replies[0].Description)
}

func TestModlogsRendersEntries(t *testing.T) {
	h := newHarness(t)
	created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	expiry := created.Add(7 * 24 * time.Hour).UnixMilli()
	h.modlogs.rows = []store.Punishment{
		{ID: 1, Type: store.TypeBan, ModID: "mod1", Reason: "spamming", Duration: &expiry, CreatedAt: created},
		{ID: 2, Type: store.TypeWarn, ModID: "mod1", CreatedAt: created},
		{ID: 3, Type: store.TypeMute, ModID: "mod1", Reason: "caps", CreatedAt: created},
	}

	h.run(t, "modlogs", command.Args{"user": &discordgo.User{ID: "victim1"}})

	require.Len(t, h.replies, 1)
	embed := h.replies[0]
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Page 1/1", embed.Footer.Text)

	ban := embed.Fields[0]
	assert.Equal(t, "Type: BAN", ban.Name)
	assert.Contains(t, ban.Value, "Modlog ID: `1`")
	assert.Contains(t, ban.Value, "Reason: `spamming`")
	assert.Contains(t, ban.Value, "Moderator: <@mod1>")
	assert.Contains(t, ban.Value, "Duration: `7d`")
	assert.Contains(t, ban.Value, fmt.Sprintf("Expires: <t:%d>", time.UnixMilli(expiry).Unix()))

	// warns carry no duration lines
	warn := embed.Fields[1]
	assert.Equal(t, "Type: WARN", warn.Name)
	assert.Contains(t, warn.Value, "Reason: `N/A`")
	assert.NotContains(t, warn.Value, "Duration:")

	// permanent mute renders the sentinel values
	mute := embed.Fields[2]
	assert.Contains(t, mute.Value, "Duration: `Permanent`")
	assert.Contains(t, mute.Value, "Expires: `Never`")
}

func TestModlogsPagination(t *testing.T) {
	h := newHarness(t)
	for i := 1; i <= 12; i++ {
		h.modlogs.rows = append(h.modlogs.rows, store.Punishment{
			ID: i, Type: store.TypeWarn, ModID: "mod1", CreatedAt: h.now,
		})
	}

	h.run(t, "modlogs", command.Args{"user": &discordgo.User{ID: "victim1"}})
	h.run(t, "modlogs", command.Args{"user": &discordgo.User{ID: "victim1"}, "page": 3})
	h.run(t, "modlogs", command.Args{"user": &discordgo.User{ID: "victim1"}, "page": 99})

	require.Len(t, h.replies, 3)
	assert.Equal(t, "Page 1/3", h.replies[0].Footer.Text)
	assert.Len(t, h.replies[0].Fields, 5)

	assert.Equal(t, "Page 3/3", h.replies[1].Footer.Text)
	assert.Len(t, h.replies[1].Fields, 2)
	assert.Contains(t, h.replies[1].Fields[0].Value, "Modlog ID: `11`")

	// out of range pages clamp to the last page
	assert.Equal(t, "Page 3/3", h.replies[2].Footer.Text)
}
