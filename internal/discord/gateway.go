package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"server-keeper/internal/gateway"

	"github.com/bwmarrin/discordgo"
)

// Gateway adapts a discordgo session to the gateway.Gateway interface,
// bound to the guild and channel of one incoming message.
type Gateway struct {
	s         *discordgo.Session
	guildID   string
	channelID string
}

func newGateway(s *discordgo.Session, guildID, channelID string) *Gateway {
	return &Gateway{s: s, guildID: guildID, channelID: channelID}
}

// SendMessage sends text to a channel.
func (g *Gateway) SendMessage(ctx context.Context, channelID, text string) error {
	_, err := g.s.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

// SendDirectMessage sends text to a user's DM channel.
func (g *Gateway) SendDirectMessage(ctx context.Context, userID, text string) error {
	ch, err := g.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel for %s: %w", userID, err)
	}
	_, err = g.s.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx))
	return err
}

// BanMember bans a guild member with a reason, deleting no message history.
func (g *Gateway) BanMember(ctx context.Context, userID, reason string) error {
	return g.s.GuildBanCreateWithReason(g.guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

// MuteMember times a member out until the given time.
func (g *Gateway) MuteMember(ctx context.Context, userID string, until time.Time) error {
	return g.s.GuildMemberTimeout(g.guildID, userID, &until, discordgo.WithContext(ctx))
}

// GetMember resolves a guild member, preferring state over a REST call.
func (g *Gateway) GetMember(ctx context.Context, userID string) (*gateway.Member, error) {
	member, err := g.s.State.Member(g.guildID, userID)
	if err != nil {
		member, err = g.s.GuildMember(g.guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			var restErr *discordgo.RESTError
			if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
				return nil, gateway.ErrMemberNotFound
			}
			return nil, err
		}
	}
	if member.User == nil {
		return nil, gateway.ErrMemberNotFound
	}
	return &gateway.Member{
		UserID:   member.User.ID,
		Username: member.User.Username,
	}, nil
}

// RenameMember sets a member's guild nickname.
func (g *Gateway) RenameMember(ctx context.Context, userID, nickname string) error {
	return g.s.GuildMemberNickname(g.guildID, userID, nickname, discordgo.WithContext(ctx))
}
