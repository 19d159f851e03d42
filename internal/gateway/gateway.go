// Package gateway defines the platform surface the command executor drives.
// The Discord implementation lives in internal/discord; tests use fakes.
package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrMemberNotFound is returned by GetMember when the user is not in the
// guild.
var ErrMemberNotFound = errors.New("member not found")

// Member is the projection of a guild member the executor needs.
type Member struct {
	UserID   string
	Username string
}

// Gateway performs platform side effects for one incoming message. Calls
// fail fast; nothing here retries.
type Gateway interface {
	// SendMessage sends text to a channel.
	SendMessage(ctx context.Context, channelID, text string) error
	// SendDirectMessage sends text to a user's DM channel.
	SendDirectMessage(ctx context.Context, userID, text string) error
	// BanMember bans a guild member with a reason, deleting no messages.
	BanMember(ctx context.Context, userID, reason string) error
	// MuteMember disables a member's communication until the given time.
	MuteMember(ctx context.Context, userID string, until time.Time) error
	// GetMember resolves a guild member, or ErrMemberNotFound.
	GetMember(ctx context.Context, userID string) (*Member, error)
	// RenameMember sets a member's guild nickname.
	RenameMember(ctx context.Context, userID, nickname string) error
	// IsModerator reports whether a user holds moderator permissions.
	// Callers treat an error as a denial, never as an allowance.
	IsModerator(userID string) (bool, error)
}
