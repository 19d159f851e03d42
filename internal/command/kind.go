package command

import (
	"fmt"
	"strings"
)

// Kind identifies which variant of Command a value is, independent of its
// payload. It doubles as the key for parsing dispatch and help lookup.
type Kind int

const (
	KindNotACommand Kind = iota
	KindNotValid
	KindBan
	KindMute
	KindNotice
	KindPrivateModMessage
	KindXkcd
	KindDontAskToAsk
	KindHelp
	KindSuggestion
	KindDev
	KindCoinFlip
	KindRandomInt
	KindOptin
	KindOptout
	KindKeke
	KindCasefile
)

// ParseKind maps the leading token of a message, minus prefix, to a Kind.
// It is total: case does not matter and unrecognized tokens map to
// KindNotValid, never an error.
func ParseKind(token string) Kind {
	switch strings.ToLower(token) {
	case "ban":
		return KindBan
	case "mute":
		return KindMute
	case "notice":
		return KindNotice
	case "private", "pvm":
		return KindPrivateModMessage
	case "xkcd":
		return KindXkcd
	case "dontasktoask", "da2a":
		return KindDontAskToAsk
	case "help":
		return KindHelp
	case "suggest":
		return KindSuggestion
	case "dev":
		return KindDev
	case "coinflip", "flip":
		return KindCoinFlip
	case "randint", "rand":
		return KindRandomInt
	case "optin":
		return KindOptin
	case "optout":
		return KindOptout
	case "keke":
		return KindKeke
	case "casefile":
		return KindCasefile
	}
	return KindNotValid
}

func (k Kind) String() string {
	switch k {
	case KindNotACommand:
		return "notacommand"
	case KindNotValid:
		return "notvalid"
	case KindBan:
		return "ban"
	case KindMute:
		return "mute"
	case KindNotice:
		return "notice"
	case KindPrivateModMessage:
		return "private"
	case KindXkcd:
		return "xkcd"
	case KindDontAskToAsk:
		return "dontasktoask"
	case KindHelp:
		return "help"
	case KindSuggestion:
		return "suggest"
	case KindDev:
		return "dev"
	case KindCoinFlip:
		return "coinflip"
	case KindRandomInt:
		return "randint"
	case KindOptin:
		return "optin"
	case KindOptout:
		return "optout"
	case KindKeke:
		return "keke"
	case KindCasefile:
		return "casefile"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Help returns the formatted usage text for a kind, with the configured
// prefix interpolated.
func (k Kind) Help(prefix string) string {
	body, ok := helpTexts[k]
	if !ok {
		body = "INVALID COMMAND"
	}
	return "```\n" + strings.ReplaceAll(body, "{prefix}", prefix) + "\n```"
}

var helpTexts = map[Kind]string{
	KindBan: `{prefix}ban [user] [reason] - Mod Only!
================================
Bans a user from the server. Note that bans require, at least,
half or more of the mod team to agree to ban someone in most cases.`,
	KindMute: `{prefix}mute [user] [time] [reason] - Mod Only!
================================
Mutes a user for a specified time, e.g. 2h30m.
This uses the platform's time-out feature.`,
	KindNotice: `{prefix}notice [...message] - Mod Only!
================================
Anonymously gives a broadcast to the channel.`,
	KindPrivateModMessage: `{prefix}pvm [...message]
================================
Sends a one-time message to the mod channel.`,
	KindXkcd: `{prefix}xkcd [<index:number> OR <phrase:word(s)>]
================================
Sends a pre-formatted XKCD link.
Some phrases have link mappings (e.g. 'tautology' maps to XKCD 703.)`,
	KindDontAskToAsk: `{prefix}da2a | {prefix}dontasktoask
================================
Sends the link 'https://dontasktoask.com/', verbatim.`,
	KindHelp: `{prefix}help <command>
================================
Hey, wait a minute...`,
	KindSuggestion: `{prefix}suggest [phrase:word(s)]
================================
Sends a suggestion to be reviewed at a later date.`,
	KindDev: `{prefix}dev [command] - Dev Only!
================================
Can perform a variety of developer options.`,
	KindCoinFlip: `{prefix}coinflip
================================
50/50 chance to return Heads or Tails.`,
	KindRandomInt: `{prefix}randint [max:number]
================================
Returns a random number between 0 (inclusive) and max (exclusive).`,
	KindOptin: `{prefix}optin
================================
Allows you to get keke'd.
Specifically, your name can be changed by saying 'I'm ___' or a similar phrase.`,
	KindOptout: `{prefix}optout
================================
Opts out of getting keke'd.`,
	KindKeke: `{prefix}keke
================================
Sends the original 'lmao get keke'd' video.`,
	KindCasefile: `{prefix}casefile create [name] | read [id] | add [id] [item] | remove [id] <index> | view | delete [id]
================================
Tracks incident casefiles: named records with a list of items.`,
}
