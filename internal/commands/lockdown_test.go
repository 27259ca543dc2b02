package commands

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxi1224/WhiteHatMod/internal/command"
	"github.com/oxi1224/WhiteHatMod/internal/store"
)

func TestLockdownSingleChannel(t *testing.T) {
	h := newHarness(t)

	h.run(t, "lockdown", command.Args{
		"channel": &discordgo.Channel{ID: "general"},
		"reason":  "raid",
	})

	require.Len(t, h.overwrites, 1)
	ow := h.overwrites[0]
	assert.Equal(t, "general", ow.channelID)
	assert.Equal(t, "guild1", ow.roleID)
	assert.EqualValues(t, 0, ow.allow)
	assert.EqualValues(t, discordgo.PermissionSendMessages, ow.deny)

	require.Len(t, h.sent["general"], 1)
	notice := h.sent["general"][0]
	assert.Equal(t, "ℹ️ This channel has been locked", notice.Title)
	assert.Equal(t, "Reason: `raid`", notice.Description)

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "Successfully locked <#general>")
}

func TestUnlockSingleChannelAllowsSending(t *testing.T) {
	h := newHarness(t)

	h.run(t, "unlockdown", command.Args{"channel": &discordgo.Channel{ID: "general"}})

	require.Len(t, h.overwrites, 1)
	assert.EqualValues(t, discordgo.PermissionSendMessages, h.overwrites[0].allow)
	assert.EqualValues(t, 0, h.overwrites[0].deny)

	require.Len(t, h.sent["general"], 1)
	assert.Equal(t, "✅ This channel has been unlocked", h.sent["general"][0].Title)
	assert.Equal(t, "Reason: `N/A`", h.sent["general"][0].Description)
}

func TestLockdownSingleChannelFailure(t *testing.T) {
	h := newHarness(t)
	h.overwriteErr = errors.New("403")

	h.run(t, "lockdown", command.Args{"channel": &discordgo.Channel{ID: "general"}})

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "Failed to lockdown <#general>")
	assert.Empty(t, h.sent["general"])
}

func TestLockdownWithoutConfiguredChannels(t *testing.T) {
	h := newHarness(t)

	h.run(t, "lockdown", command.Args{"reason": "raid"})

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "There are no lockdownChannels in the guild config")
}

func TestLockdownConfiguredChannelsAccounting(t *testing.T) {
	h := newHarness(t)
	h.configs.cfg = &store.GuildConfig{
		ID:                "guild1",
		LockdownChannels:  store.StringList{"ok1", "missing1", "ok2"},
		ModerationLogChan: "log1",
	}
	h.channels["ok1"] = &discordgo.Channel{ID: "ok1"}
	h.channels["ok2"] = &discordgo.Channel{ID: "ok2"}

	h.run(t, "lockdown", command.Args{"reason": "raid"})

	require.Len(t, h.overwrites, 2)
	require.Len(t, h.replies, 1)
	result := h.replies[0]
	assert.Equal(t, "Lockdown result", result.Title)
	require.Len(t, result.Fields, 2)
	assert.Equal(t, "Locked Channels", result.Fields[0].Name)
	assert.Equal(t, "<#ok1>, <#ok2>", result.Fields[0].Value)
	assert.Equal(t, "Failed to find", result.Fields[1].Name)
	assert.Equal(t, "`missing1`", result.Fields[1].Value)

	// locked channels got the in-channel notice
	assert.Len(t, h.sent["ok1"], 1)
	assert.Len(t, h.sent["ok2"], 1)

	// action summary went to the moderation log channel
	require.Len(t, h.sent["log1"], 1)
	logEmbed := h.sent["log1"][0]
	assert.Equal(t, "Action: LOCKDOWN", logEmbed.Title)
	assert.Equal(t, "<@mod1>", logEmbed.Fields[0].Value)
	assert.Equal(t, "<#ok1>, <#ok2>", logEmbed.Fields[1].Value)
	assert.Equal(t, "`raid`", logEmbed.Fields[2].Value)
}

func TestUnlockConfiguredChannelsLogsAction(t *testing.T) {
	h := newHarness(t)
	h.configs.cfg = &store.GuildConfig{
		ID:                "guild1",
		LockdownChannels:  store.StringList{"ok1"},
		ModerationLogChan: "log1",
	}
	h.channels["ok1"] = &discordgo.Channel{ID: "ok1"}

	h.run(t, "unlockdown", command.Args{})

	require.Len(t, h.replies, 1)
	assert.Equal(t, "Unlock result", h.replies[0].Title)
	assert.Equal(t, "Unlocked Channels", h.replies[0].Fields[0].Name)
	require.Len(t, h.sent["log1"], 1)
	assert.Equal(t, "Action: UNLOCKDOWN", h.sent["log1"][0].Title)
}
