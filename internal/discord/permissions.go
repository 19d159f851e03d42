package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// IsModerator reports whether a user can moderate: they hold the Ban Members
// permission in the originating channel. An error means "could not
// determine"; callers must treat that as a denial, never an allowance.
func (g *Gateway) IsModerator(userID string) (bool, error) {
	perms, err := g.s.UserChannelPermissions(userID, g.channelID)
	if err != nil {
		return false, fmt.Errorf("resolve permissions for %s: %w", userID, err)
	}
	return perms&discordgo.PermissionBanMembers != 0, nil
}
