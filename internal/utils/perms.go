package utils

import (
	"github.com/bwmarrin/discordgo"
)

// permissionNames maps the permission bits this bot cares about to the
// names shown in "you are missing ..." replies.
var permissionNames = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrator"},
	{discordgo.PermissionBanMembers, "BanMembers"},
	{discordgo.PermissionKickMembers, "KickMembers"},
	{discordgo.PermissionModerateMembers, "ModerateMembers"},
	{discordgo.PermissionVoiceMuteMembers, "MuteMembers"},
	{discordgo.PermissionManageMessages, "ManageMessages"},
	{discordgo.PermissionManageChannels, "ManageChannels"},
	{discordgo.PermissionManageRoles, "ManageRoles"},
	{discordgo.PermissionManageServer, "ManageGuild"},
	{discordgo.PermissionSendMessages, "SendMessages"},
	{discordgo.PermissionAttachFiles, "AttachFiles"},
	{discordgo.PermissionEmbedLinks, "EmbedLinks"},
}

// PermissionName returns the display name of a single permission bit.
func PermissionName(bit int64) string {
	for _, p := range permissionNames {
		if p.bit == bit {
			return p.name
		}
	}
	return "UnknownPermission"
}

// MissingPermNames returns the names of every required bit absent from the
// held permission set. Administrator implies everything.
func MissingPermNames(held int64, required []int64) []string {
	if held&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	var missing []string
	for _, bit := range required {
		if held&bit == 0 {
			missing = append(missing, PermissionName(bit))
		}
	}
	return missing
}

// HasPermission reports whether the held set contains the bit, honoring
// the administrator override.
func HasPermission(held, bit int64) bool {
	if held&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return held&bit != 0
}

// MemberPermissions computes a member's guild-level permission set from
// its roles. The guild owner and administrators hold every bit.
func MemberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if member == nil || member.User == nil {
		return 0
	}
	if guild.OwnerID == member.User.ID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range guild.Roles {
		// @everyone applies to all members
		if role.ID == guild.ID {
			perms |= role.Permissions
			continue
		}
		for _, id := range member.Roles {
			if role.ID == id {
				perms |= role.Permissions
				break
			}
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}
