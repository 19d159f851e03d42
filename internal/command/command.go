// Package command implements the bot's core: a textual command grammar, a
// typed command representation, authorization gating, and an executor that
// maps each command to platform side effects.
package command

import (
	"server-keeper/internal/casefile"
	"server-keeper/internal/timespan"
)

// Command is one fully parsed user request. It is a closed union: the only
// implementations live in this package, and each carries exactly the data
// needed to execute it.
type Command interface {
	Kind() Kind
}

// Ban bans a user, with a reason. Moderator only.
type Ban struct {
	UserID string
	Reason string
}

// Mute mutes a user for a specified time and reason. Moderator only.
type Mute struct {
	UserID string
	Time   timespan.Span
	Reason string
}

// Notice broadcasts an anonymous staff announcement to the channel.
// Moderator only.
type Notice struct {
	Text string
}

// PrivateModMessage relays a message privately to the staff channel.
type PrivateModMessage struct {
	Message string
	User    string
}

// Xkcd sends a link to the comic with the given number.
type Xkcd struct {
	ID uint64
}

// DontAskToAsk sends, literally, https://dontasktoask.com/.
type DontAskToAsk struct{}

// Help shows usage for one command, or a generic header when Topic is nil.
type Help struct {
	Topic *Kind
}

// Suggestion relays a suggestion for the bot to the developer.
type Suggestion struct {
	Text string
}

// NotValid is the terminal rejection: it always results in a reply carrying
// Reason and never mutates anything.
type NotValid struct {
	Reason string
}

// NotACommand marks ordinary chatter. The bot stays silent for it.
type NotACommand struct{}

// Dev is a developer-only action such as "stop". Developer only.
type Dev struct {
	Action string
}

// CoinFlip flips a single coin.
type CoinFlip struct{}

// RandomInt draws an integer in [0, Bound).
type RandomInt struct {
	Bound uint64
}

// Optin opts the actor into the nickname easter egg.
type Optin struct{}

// Optout opts the actor out of the nickname easter egg.
type Optout struct{}

// Keke sends a link to the original "get keke'd" video.
type Keke struct{}

// Casefile runs one incident-record action.
type Casefile struct {
	Action casefile.Action
}

func (Ban) Kind() Kind               { return KindBan }
func (Mute) Kind() Kind              { return KindMute }
func (Notice) Kind() Kind            { return KindNotice }
func (PrivateModMessage) Kind() Kind { return KindPrivateModMessage }
func (Xkcd) Kind() Kind              { return KindXkcd }
func (DontAskToAsk) Kind() Kind      { return KindDontAskToAsk }
func (Help) Kind() Kind              { return KindHelp }
func (Suggestion) Kind() Kind        { return KindSuggestion }
func (NotValid) Kind() Kind          { return KindNotValid }
func (NotACommand) Kind() Kind       { return KindNotACommand }
func (Dev) Kind() Kind               { return KindDev }
func (CoinFlip) Kind() Kind          { return KindCoinFlip }
func (RandomInt) Kind() Kind         { return KindRandomInt }
func (Optin) Kind() Kind             { return KindOptin }
func (Optout) Kind() Kind            { return KindOptout }
func (Keke) Kind() Kind              { return KindKeke }
func (Casefile) Kind() Kind          { return KindCasefile }

// Actor is the user who sent the message being processed.
type Actor struct {
	ID   string
	Name string
}
