package command

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractionTypedValues(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	defs := []Argument{
		{Name: "reason", Type: ArgText, SlashType: discordgo.ApplicationCommandOptionString},
		{Name: "duration", Type: ArgDuration, SlashType: discordgo.ApplicationCommandOptionString},
		{Name: "delete", Type: ArgInt, SlashType: discordgo.ApplicationCommandOptionInteger},
		{Name: "silent", Type: ArgBool, SlashType: discordgo.ApplicationCommandOptionBoolean},
	}

	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "reason", Type: discordgo.ApplicationCommandOptionString, Value: "spamming invites"},
			{Name: "duration", Type: discordgo.ApplicationCommandOptionString, Value: "2h"},
			{Name: "delete", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(6)},
			{Name: "silent", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		},
	}

	args := ParseInteraction(data, defs, now)
	assert.Len(t, args, len(defs))
	assert.Equal(t, "spamming invites", args.String("reason"))
	assert.Equal(t, now.Add(2*time.Hour), args.Time("duration"))
	assert.Equal(t, 6, args.Int("delete"))
	assert.Equal(t, true, args["silent"])
}

func TestParseInteractionResolvedEntities(t *testing.T) {
	defs := []Argument{
		{Name: "user", Type: ArgMember, SlashType: discordgo.ApplicationCommandOptionUser},
		{Name: "channel", Type: ArgChannel, SlashType: discordgo.ApplicationCommandOptionChannel},
		{Name: "role", Type: ArgRole, SlashType: discordgo.ApplicationCommandOptionRole},
	}

	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "111"},
			{Name: "channel", Type: discordgo.ApplicationCommandOptionChannel, Value: "222"},
			{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "333"},
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users:    map[string]*discordgo.User{"111": {ID: "111", Username: "victim"}},
			Members:  map[string]*discordgo.Member{"111": {Nick: "vic"}},
			Channels: map[string]*discordgo.Channel{"222": {ID: "222", Name: "general"}},
			Roles:    map[string]*discordgo.Role{"333": {ID: "333", Name: "muted"}},
		},
	}

	args := ParseInteraction(data, defs, time.Now())

	m := args.Member("user")
	require.NotNil(t, m)
	// Resolved members arrive detached from their user payload.
	require.NotNil(t, m.User)
	assert.Equal(t, "111", m.User.ID)

	require.NotNil(t, args.Channel("channel"))
	assert.Equal(t, "general", args.Channel("channel").Name)
	require.NotNil(t, args.Role("role"))
	assert.Equal(t, "muted", args.Role("role").Name)
}

func TestParseInteractionAbsentAndInvalid(t *testing.T) {
	now := time.Now()
	defs := []Argument{
		{Name: "duration", Type: ArgDuration, SlashType: discordgo.ApplicationCommandOptionString},
		{Name: "user", Type: ArgUser, SlashType: discordgo.ApplicationCommandOptionUser},
		{Name: "reason", Type: ArgText, SlashType: discordgo.ApplicationCommandOptionString},
	}

	// Nothing supplied: every definition still gets an entry.
	args := ParseInteraction(discordgo.ApplicationCommandInteractionData{}, defs, now)
	assert.Len(t, args, len(defs))
	for _, def := range defs {
		assert.Nil(t, args[def.Name], def.Name)
	}

	// A duration string that does not parse maps to nil.
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "duration", Type: discordgo.ApplicationCommandOptionString, Value: "whenever"},
			{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "999"},
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users: map[string]*discordgo.User{},
		},
	}
	args = ParseInteraction(data, defs, now)
	assert.Nil(t, args["duration"])
	assert.Nil(t, args["user"])
}
