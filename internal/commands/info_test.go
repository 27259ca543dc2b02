package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxi1224/WhiteHatMod/internal/command"
)

func TestPingReportsLatencies(t *testing.T) {
	h := newHarness(t)

	h.run(t, "ping", command.Args{})

	require.Len(t, h.replies, 1)
	embed := h.replies[0]
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Bot latency", embed.Fields[0].Name)
	assert.Equal(t, "Api latency", embed.Fields[1].Name)
	assert.Equal(t, "`42ms`", embed.Fields[1].Value)
}

func TestAvatarDefaultsToInvoker(t *testing.T) {
	h := newHarness(t)

	h.run(t, "avatar", command.Args{})

	require.Len(t, h.replies, 1)
	embed := h.replies[0]
	assert.Equal(t, "mod's Avatar", embed.Title)
	assert.Equal(t, "ID: mod1", embed.Footer.Text)
	require.NotNil(t, embed.Image)
}

func TestAvatarUsesArgument(t *testing.T) {
	h := newHarness(t)

	h.run(t, "avatar", command.Args{"user": &discordgo.User{ID: "victim1", Username: "vic", GlobalName: "Victim"}})

	require.Len(t, h.replies, 1)
	assert.Equal(t, "Victim's Avatar", h.replies[0].Title)
	assert.Equal(t, "ID: victim1", h.replies[0].Footer.Text)
}

func TestUserInfoIncludesRoles(t *testing.T) {
	h := newHarness(t)
	h.members["victim1"] = &discordgo.Member{
		User:  &discordgo.User{ID: "victim1", Username: "vic"},
		Roles: []string{"r1", "r2"},
	}

	h.run(t, "user", command.Args{"user": &discordgo.User{ID: "victim1", Username: "vic"}})

	require.Len(t, h.replies, 1)
	embed := h.replies[0]
	assert.Equal(t, "<@victim1>", embed.Description)
	assert.Equal(t, "ID: victim1", embed.Footer.Text)

	var roleField *discordgo.MessageEmbedField
	for _, f := range embed.Fields {
		if f.Name == "Roles[2]" {
			roleField = f
		}
	}
	require.NotNil(t, roleField)
	assert.Equal(t, "<@&r1> <@&r2>", roleField.Value)
}
