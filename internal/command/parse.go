package command

import (
	"strconv"
	"strings"

	"server-keeper/internal/casefile"
	"server-keeper/internal/timespan"
)

// Authorizer answers the moderator question for an actor. The gateway
// satisfies this; tests plug in fakes.
type Authorizer interface {
	IsModerator(userID string) (bool, error)
}

// Parser turns raw message text into typed commands. All configuration is
// injected; there are no compiled-in identities or prefixes.
type Parser struct {
	Prefix      string
	DeveloperID string
	Auth        Authorizer
}

// Parse produces a Command from raw message text. It never fails outward:
// malformed input becomes NotValid and ordinary chatter becomes NotACommand.
// Privileged commands come back already gated for the given actor.
func (p *Parser) Parse(content string, actor Actor) Command {
	if !strings.HasPrefix(content, p.Prefix) {
		return NotACommand{}
	}
	args := strings.Fields(content)
	if len(args) == 0 {
		return NotACommand{}
	}

	switch ParseKind(strings.TrimPrefix(args[0], p.Prefix)) {
	case KindBan:
		userID, ok := parseUserID(args, 1)
		if !ok {
			return NotValid{Reason: "Given user was not a valid UserID"}
		}
		return p.RequireModerator(Ban{UserID: userID, Reason: rest(args, 2)}, actor)
	case KindMute:
		userID, ok := parseUserID(args, 1)
		if !ok {
			return NotValid{Reason: "Given user was not a valid UserID"}
		}
		if len(args) < 3 {
			return NotValid{Reason: "Given time was invalid!"}
		}
		span, err := timespan.Parse(args[2])
		if err != nil {
			return NotValid{Reason: "Given time was invalid!"}
		}
		return p.RequireModerator(Mute{UserID: userID, Time: span, Reason: rest(args, 3)}, actor)
	case KindNotice:
		return p.RequireModerator(Notice{Text: rest(args, 1)}, actor)
	case KindPrivateModMessage:
		return PrivateModMessage{Message: rest(args, 1), User: actor.Name}
	case KindXkcd:
		return Xkcd{ID: XkcdFromText(rest(args, 1))}
	case KindDontAskToAsk:
		return DontAskToAsk{}
	case KindHelp:
		if len(args) == 1 {
			return Help{}
		}
		topic := ParseKind(args[1])
		return Help{Topic: &topic}
	case KindSuggestion:
		return Suggestion{Text: rest(args, 1)}
	case KindDev:
		return p.RequireDeveloper(Dev{Action: rest(args, 1)}, actor)
	case KindCoinFlip:
		return CoinFlip{}
	case KindRandomInt:
		bound, err := strconv.ParseUint(rest(args, 1), 10, 64)
		if err != nil {
			return NotValid{Reason: "Couldn't parse an integer from the given arguments!"}
		}
		return RandomInt{Bound: bound}
	case KindOptin:
		return Optin{}
	case KindOptout:
		return Optout{}
	case KindKeke:
		return Keke{}
	case KindCasefile:
		action, err := casefile.ParseAction(args[1:])
		if err != nil {
			return NotValid{Reason: err.Error()}
		}
		return Casefile{Action: action}
	}
	return NotValid{Reason: "I couldn't parse the command!"}
}

// RequireModerator downgrades the privileged command kinds to NotValid when
// the actor is not a moderator, or when moderator status cannot be
// determined (denial is the safe default). Every other kind passes through
// unchanged; the gate never upgrades.
func (p *Parser) RequireModerator(c Command, actor Actor) Command {
	switch c.Kind() {
	case KindBan, KindMute, KindNotice:
	default:
		return c
	}
	isMod, err := p.Auth.IsModerator(actor.ID)
	if err != nil {
		return NotValid{Reason: "Could not determine whether the user is a mod, so I'm falling back to not allowing it."}
	}
	if !isMod {
		return NotValid{Reason: "User is not a moderator!"}
	}
	return c
}

// RequireDeveloper downgrades a command to NotValid unless the actor is the
// configured developer.
func (p *Parser) RequireDeveloper(c Command, actor Actor) Command {
	if actor.ID == p.DeveloperID {
		return c
	}
	return NotValid{Reason: "User is not the dev!"}
}

// parseUserID validates the token at idx as a numeric user identifier.
func parseUserID(args []string, idx int) (string, bool) {
	if idx >= len(args) {
		return "", false
	}
	if _, err := strconv.ParseUint(args[idx], 10, 64); err != nil {
		return "", false
	}
	return args[idx], true
}

// rest joins the tokens from idx onward with single spaces.
func rest(args []string, idx int) string {
	if idx >= len(args) {
		return ""
	}
	return strings.Join(args[idx:], " ")
}
