package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	ModeratorPermission = "moderator"
	GuestPermission     = "guest"
)

// CheckPermission returns the highest permission level for a member with the given
// guild permission bits.
func CheckPermission(userID string, permissions int64, developerUserIDs []string) string {
	if slices.Contains(developerUserIDs, userID) {
		return DeveloperPermission
	}
	if permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0 {
		return AdminPermission
	}
	if permissions&(discordgo.PermissionModerateMembers|discordgo.PermissionBanMembers|discordgo.PermissionKickMembers) != 0 {
		return ModeratorPermission
	}
	return GuestPermission
}

// IsAdministrator reports whether the permission bits bypass automod.
func IsAdministrator(permissions int64) bool {
	return permissions&discordgo.PermissionAdministrator != 0
}
