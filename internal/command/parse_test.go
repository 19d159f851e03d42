package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"server-keeper/internal/casefile"
	"server-keeper/internal/timespan"
)

// fakeAuth answers moderator queries from a fixed set, or fails every query
// when err is set.
type fakeAuth struct {
	mods map[string]bool
	err  error
}

func (f *fakeAuth) IsModerator(userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.mods[userID], nil
}

const (
	modID  = "111"
	plebID = "222"
	devID  = "333"
)

func newTestParser() *Parser {
	return &Parser{
		Prefix:      "-",
		DeveloperID: devID,
		Auth:        &fakeAuth{mods: map[string]bool{modID: true}},
	}
}

func kindPtr(k Kind) *Kind { return &k }

func TestParse(t *testing.T) {
	p := newTestParser()
	mod := Actor{ID: modID, Name: "mod"}
	pleb := Actor{ID: plebID, Name: "pleb"}

	cases := []struct {
		name    string
		content string
		actor   Actor
		want    Command
	}{
		{"no prefix", "hello there", pleb, NotACommand{}},
		{"prefix only", "-", pleb, NotValid{Reason: "I couldn't parse the command!"}},
		{"unknown command", "-frobnicate", pleb, NotValid{Reason: "I couldn't parse the command!"}},
		{"randint", "-randint 10", pleb, RandomInt{Bound: 10}},
		{"randint synonym", "-rand 10", pleb, RandomInt{Bound: 10}},
		{"randint bad bound", "-randint banana", pleb,
			NotValid{Reason: "Couldn't parse an integer from the given arguments!"}},
		{"xkcd alias", "-xkcd tautology", pleb, Xkcd{ID: 703}},
		{"xkcd numeric", "-xkcd 927", pleb, Xkcd{ID: 927}},
		{"xkcd fallback", "-xkcd some gibberish", pleb, Xkcd{ID: 404}},
		{"ban by mod", "-ban 123456 spamming the channel", mod,
			Ban{UserID: "123456", Reason: "spamming the channel"}},
		{"ban uppercase token", "-BAN 123456 spam", mod, Ban{UserID: "123456", Reason: "spam"}},
		{"ban by non-mod", "-ban 123456 spamming", pleb,
			NotValid{Reason: "User is not a moderator!"}},
		{"ban bad user id", "-ban notanid spamming", mod,
			NotValid{Reason: "Given user was not a valid UserID"}},
		{"ban missing user", "-ban", mod,
			NotValid{Reason: "Given user was not a valid UserID"}},
		{"mute by mod", "-mute 123456 2h30m being loud", mod,
			Mute{UserID: "123456", Time: timespan.Span{Hours: 2, Minutes: 30}, Reason: "being loud"}},
		{"mute bad time", "-mute 123456 forever", mod,
			NotValid{Reason: "Given time was invalid!"}},
		{"mute missing time", "-mute 123456", mod,
			NotValid{Reason: "Given time was invalid!"}},
		{"notice by mod", "-notice downtime at noon", mod, Notice{Text: "downtime at noon"}},
		{"notice by non-mod", "-notice downtime at noon", pleb,
			NotValid{Reason: "User is not a moderator!"}},
		{"pvm is ungated", "-pvm need a word with staff", pleb,
			PrivateModMessage{Message: "need a word with staff", User: "pleb"}},
		{"help bare", "-help", pleb, Help{}},
		{"help topic", "-help mute", pleb, Help{Topic: kindPtr(KindMute)}},
		{"help unknown topic", "-help garbage", pleb, Help{Topic: kindPtr(KindNotValid)}},
		{"suggest", "-suggest more easter eggs", pleb, Suggestion{Text: "more easter eggs"}},
		{"dev by dev", "-dev stop", Actor{ID: devID, Name: "dev"}, Dev{Action: "stop"}},
		{"dev by anyone else", "-dev stop", mod, NotValid{Reason: "User is not the dev!"}},
		{"coinflip", "-flip", pleb, CoinFlip{}},
		{"dontasktoask", "-da2a", pleb, DontAskToAsk{}},
		{"optin", "-optin", pleb, Optin{}},
		{"optout", "-optout", pleb, Optout{}},
		{"keke", "-keke", pleb, Keke{}},
		{"casefile create", "-casefile create stolen flag", mod,
			Casefile{Action: casefile.Action{Verb: casefile.VerbCreate, Name: "stolen flag"}}},
		{"casefile no action", "-casefile", mod, NotValid{Reason: "No valid action to take!"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := p.Parse(c.content, c.actor)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", c.content, diff)
			}
		})
	}
}

func TestParseFailsClosedOnModeratorQueryError(t *testing.T) {
	p := newTestParser()
	p.Auth = &fakeAuth{err: errors.New("gateway down")}

	got := p.Parse("-ban 123456 spamming", Actor{ID: modID, Name: "mod"})
	nv, ok := got.(NotValid)
	if !ok {
		t.Fatalf("Parse with failing auth = %#v, want NotValid", got)
	}
	if !strings.Contains(nv.Reason, "falling back to not allowing it") {
		t.Errorf("denial reason should name the indeterminate check, got %q", nv.Reason)
	}
}

func TestRequireModeratorPassesNonPrivilegedThrough(t *testing.T) {
	p := newTestParser()
	pleb := Actor{ID: plebID}

	// Non-privileged kinds are untouched, even for non-moderators and even
	// when the query itself would fail.
	if got := p.RequireModerator(CoinFlip{}, pleb); got != (CoinFlip{}) {
		t.Errorf("RequireModerator(CoinFlip) = %#v, want CoinFlip", got)
	}
	p.Auth = &fakeAuth{err: errors.New("down")}
	if got := p.RequireModerator(Xkcd{ID: 1}, pleb); got != (Xkcd{ID: 1}) {
		t.Errorf("RequireModerator(Xkcd) = %#v, want Xkcd unchanged", got)
	}

	// Privileged kinds are rewritten.
	p.Auth = &fakeAuth{}
	got := p.RequireModerator(Notice{Text: "x"}, pleb)
	if _, ok := got.(NotValid); !ok {
		t.Errorf("RequireModerator(Notice) = %#v, want NotValid", got)
	}
}

func TestRequireDeveloper(t *testing.T) {
	p := newTestParser()

	if got := p.RequireDeveloper(Dev{Action: "stop"}, Actor{ID: devID}); got != (Dev{Action: "stop"}) {
		t.Errorf("RequireDeveloper for the dev = %#v, want pass-through", got)
	}
	got := p.RequireDeveloper(Dev{Action: "stop"}, Actor{ID: modID})
	if diff := cmp.Diff(Command(NotValid{Reason: "User is not the dev!"}), got); diff != "" {
		t.Errorf("RequireDeveloper mismatch (-want +got):\n%s", diff)
	}
}
