package utils

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "30min", FormatDuration(30*time.Minute))
	assert.Equal(t, "12h", FormatDuration(12*time.Hour))
	assert.Equal(t, "3d", FormatDuration(72*time.Hour))
}

func TestChunkString(t *testing.T) {
	chunks := ChunkString("abcdefgh", 3)
	assert.Equal(t, []string{"abc", "def", "gh"}, chunks)

	chunks = ChunkString("ab", 3)
	assert.Equal(t, []string{"ab"}, chunks)
}

func TestMissingPermNames(t *testing.T) {
	held := int64(discordgo.PermissionKickMembers)
	required := []int64{discordgo.PermissionBanMembers, discordgo.PermissionKickMembers}

	assert.Equal(t, []string{"BanMembers"}, MissingPermNames(held, required))

	// Administrator implies everything.
	assert.Nil(t, MissingPermNames(discordgo.PermissionAdministrator, required))
}

func TestMemberPermissions(t *testing.T) {
	guild := &discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Permissions: discordgo.PermissionSendMessages}, // @everyone
			{ID: "mod", Permissions: discordgo.PermissionBanMembers},
			{ID: "admin", Permissions: discordgo.PermissionAdministrator},
		},
	}

	member := &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"mod"}}
	perms := MemberPermissions(guild, member)
	assert.True(t, HasPermission(perms, discordgo.PermissionBanMembers))
	assert.True(t, HasPermission(perms, discordgo.PermissionSendMessages))
	assert.False(t, HasPermission(perms, discordgo.PermissionManageChannels))

	admin := &discordgo.Member{User: &discordgo.User{ID: "u2"}, Roles: []string{"admin"}}
	assert.Equal(t, int64(discordgo.PermissionAll), MemberPermissions(guild, admin))

	owner := &discordgo.Member{User: &discordgo.User{ID: "owner"}}
	assert.Equal(t, int64(discordgo.PermissionAll), MemberPermissions(guild, owner))
}
