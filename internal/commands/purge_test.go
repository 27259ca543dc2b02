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

func TestPurgeRejectsCountOutOfRange(t *testing.T) {
	h := newHarness(t)

	h.run(t, "purge", command.Args{"count": 101})

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "Invalid count provided (`101`), must be between 1 and 100}")
	assert.Empty(t, h.deleted)
}

func TestPurgeDeletesFetchedMessages(t *testing.T) {
	h := newHarness(t)
	h.messages = []*discordgo.Message{
		{ID: "m1", Author: &discordgo.User{ID: "a"}},
		{ID: "m2", Author: &discordgo.User{ID: "b"}},
	}

	h.run(t, "purge", command.Args{"count": 2})

	require.Len(t, h.deleted, 1)
	assert.Equal(t, []string{"m1", "m2"}, h.deleted[0])
	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "Successfully removed `2` messages")

	ev := <-h.events
	assert.Equal(t, store.TypePurge, ev.Type)
	assert.Equal(t, "Removed messages: 2", ev.Reason)
	assert.Equal(t, "mod1", ev.ModeratorID)
	assert.False(t, ev.CreateEntry)
}

func TestPurgeFiltersByUser(t *testing.T) {
	h := newHarness(t)
	h.messages = []*discordgo.Message{
		{ID: "m1", Author: &discordgo.User{ID: "victim1"}},
		{ID: "m2", Author: &discordgo.User{ID: "other"}},
		{ID: "m3", Author: &discordgo.User{ID: "victim1"}},
	}

	h.run(t, "purge", command.Args{"count": 3, "user": &discordgo.User{ID: "victim1"}})

	require.Len(t, h.deleted, 1)
	assert.Equal(t, []string{"m1", "m3"}, h.deleted[0])
	ev := <-h.events
	assert.Equal(t, "victim1", ev.VictimID)
	assert.Equal(t, "Removed messages: 2", ev.Reason)
}

func TestPurgeReportsWhenUserHasNoMessages(t *testing.T) {
	h := newHarness(t)
	h.messages = []*discordgo.Message{
		{ID: "m1", Author: &discordgo.User{ID: "other"}},
	}

	h.run(t, "purge", command.Args{"count": 1, "user": &discordgo.User{ID: "victim1"}})

	assert.Empty(t, h.deleted)
	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "No messages from <@victim1> found in specified range")
}

func TestPurgeReportsDeleteFailure(t *testing.T) {
	h := newHarness(t)
	h.messages = []*discordgo.Message{{ID: "m1", Author: &discordgo.User{ID: "a"}}}
	h.deleteErr = errors.New("403")

	h.run(t, "purge", command.Args{"count": 1})

	require.Len(t, h.replies, 1)
	assert.Contains(t, h.replies[0].Description, "An error has occured while deleting messages")
	assert.Empty(t, h.events)
}
