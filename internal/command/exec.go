package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"server-keeper/internal/casefile"
	"server-keeper/internal/gateway"
)

const (
	dontAskToAskURL = "https://dontasktoask.com/"
	kekeVideoURL    = "https://cdn.discordapp.com/attachments/563196186912096256/799820975666888764/SPOILER_Untitled_28_1080p.mp4"

	banNoticeTemplate = "You were banned from the server for the following reason:\n" +
		"> *[REASON]*\n" +
		"If you think this was done in error, you can DM the staff for an appeal.\n" +
		"We recommend waiting at least a week before appealing."

	muteNoticeTemplate = "You were muted in the server for the following reason:\n" +
		"> *[REASON]*\n" +
		"If you believe this to be in error, contact the staff team."
)

// MemberSets is the opt-in persistence the executor needs. Both operations
// are idempotent.
type MemberSets interface {
	OptIn(userID string) error
	OptOut(userID string) error
}

// CaseStore is the casefile record store the executor drives. Update applies
// a mutation atomically; the executor never does its own read-modify-write.
type CaseStore interface {
	Create(ctx context.Context, name string) (uint64, error)
	Read(ctx context.Context, id uint64) (*casefile.CaseFile, error)
	Update(ctx context.Context, id uint64, fn func(*casefile.CaseFile) error) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]*casefile.CaseFile, error)
}

// Incoming identifies where a command came from.
type Incoming struct {
	ChannelID string
	Actor     Actor
}

// Executor maps typed commands to platform side effects. Platform failures
// surface once and are never retried; for ban and mute the whole operation
// aborts before any follow-up messages if the primary action fails, while a
// failed courtesy DM afterward is only logged.
type Executor struct {
	Gateway     gateway.Gateway
	Members     MemberSets
	Cases       CaseStore
	Prefix      string
	DeveloperID string
	// Shutdown requests a graceful stop of the surrounding runtime. Invoked
	// by the developer stop/halt action after the farewell message.
	Shutdown func()
}

// Execute performs the side effects of one command.
func (e *Executor) Execute(ctx context.Context, cmd Command, in Incoming) error {
	switch c := cmd.(type) {
	case Ban:
		return e.executeBan(ctx, c, in)
	case Mute:
		return e.executeMute(ctx, c, in)
	case Notice:
		text := fmt.Sprintf("The following is an official announcement from the staff team:\n> **%s**", c.Text)
		return e.Gateway.SendMessage(ctx, in.ChannelID, text)
	case PrivateModMessage:
		// Explicitly unimplemented, not a silent no-op.
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			"One-time private mod messages are unimplemented. For now, you can use the modmail system.")
	case Xkcd:
		return e.Gateway.SendMessage(ctx, in.ChannelID, fmt.Sprintf("https://xkcd.com/%d/", c.ID))
	case DontAskToAsk:
		return e.Gateway.SendMessage(ctx, in.ChannelID, dontAskToAskURL)
	case Help:
		if c.Topic != nil {
			return e.Gateway.SendMessage(ctx, in.ChannelID, c.Topic.Help(e.Prefix))
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Available commands! Use `%shelp <command>` for details on one.", e.Prefix))
	case Suggestion:
		dm := fmt.Sprintf("Heads up! Someone sent in a suggestion:\n> %s", c.Text)
		if err := e.Gateway.SendDirectMessage(ctx, e.DeveloperID, dm); err != nil {
			return fmt.Errorf("relay suggestion: %w", err)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			"Successfully sent the suggestion off to the dev!\nIf this is an emergency, I'd recommend pinging them.")
	case NotValid:
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Oops! That command was invalid for the following reason: \n> %s", c.Reason))
	case NotACommand:
		// Intentional silence: the bot must not respond to ordinary chatter.
		return nil
	case Dev:
		switch c.Action {
		case "stop", "halt":
			if err := e.Gateway.SendMessage(ctx, in.ChannelID, "Shutting down..."); err != nil {
				log.Println("[WARN] Failed to send farewell:", err)
			}
			if e.Shutdown != nil {
				e.Shutdown()
			}
		}
		return nil
	case CoinFlip:
		flip := "heads"
		if rand.Intn(2) == 0 {
			flip = "tails"
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("The result of the coin flip was... ||%s!||", flip))
	case RandomInt:
		n := uint64(rand.Float64() * float64(c.Bound))
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Between 0 and %d, I choose... ||%d!||", c.Bound, n))
	case Optin:
		return e.Members.OptIn(in.Actor.ID)
	case Optout:
		return e.Members.OptOut(in.Actor.ID)
	case Keke:
		return e.Gateway.SendMessage(ctx, in.ChannelID, kekeVideoURL)
	case Casefile:
		return e.executeCasefile(ctx, c.Action, in)
	}
	return fmt.Errorf("unhandled command kind %v", cmd.Kind())
}

// executeBan bans first, notifies the banned user second, and confirms to
// the channel third. If the ban itself fails nothing is sent; a failed DM
// does not roll back the ban.
func (e *Executor) executeBan(ctx context.Context, c Ban, in Incoming) error {
	member, err := e.Gateway.GetMember(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("resolve member %s: %w", c.UserID, err)
	}
	if err := e.Gateway.BanMember(ctx, c.UserID, c.Reason); err != nil {
		return fmt.Errorf("ban %s: %w", c.UserID, err)
	}
	notice := strings.ReplaceAll(banNoticeTemplate, "[REASON]", c.Reason)
	if err := e.Gateway.SendDirectMessage(ctx, c.UserID, notice); err != nil {
		log.Println("[WARN] Failed to DM banned user:", err)
	}
	return e.Gateway.SendMessage(ctx, in.ChannelID,
		fmt.Sprintf("Successfully banned %s for the following reason: \n>%s", member.Username, c.Reason))
}

func (e *Executor) executeMute(ctx context.Context, c Mute, in Incoming) error {
	until, err := c.Time.Until(time.Now())
	if err != nil {
		return fmt.Errorf("resolve mute expiry: %w", err)
	}
	if err := e.Gateway.MuteMember(ctx, c.UserID, until); err != nil {
		return fmt.Errorf("mute %s: %w", c.UserID, err)
	}
	notice := strings.ReplaceAll(muteNoticeTemplate, "[REASON]", c.Reason)
	if err := e.Gateway.SendDirectMessage(ctx, c.UserID, notice); err != nil {
		log.Println("[WARN] Failed to DM muted user:", err)
	}
	return e.Gateway.SendMessage(ctx, in.ChannelID,
		fmt.Sprintf("Successfully muted user for the following reason: \n>%s", c.Reason))
}

func (e *Executor) executeCasefile(ctx context.Context, act casefile.Action, in Incoming) error {
	switch act.Verb {
	case casefile.VerbCreate:
		id, err := e.Cases.Create(ctx, act.Name)
		if err != nil {
			return fmt.Errorf("create casefile: %w", err)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Successfully created file for '%s'. Access it with id `%d`.", act.Name, id))
	case casefile.VerbRead:
		file, err := e.Cases.Read(ctx, act.ID)
		if errors.Is(err, casefile.ErrNotFound) {
			return e.Gateway.SendMessage(ctx, in.ChannelID,
				fmt.Sprintf("There's no casefile with id `%d`.", act.ID))
		}
		if err != nil {
			return fmt.Errorf("read casefile %d: %w", act.ID, err)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Case #%d => %s [%s]\n", act.ID, file.Name, file.Resolution())
		for _, item := range file.Items {
			fmt.Fprintf(&sb, "> %s\n", item)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID, sb.String())
	case casefile.VerbAddItem:
		err := e.Cases.Update(ctx, act.ID, func(file *casefile.CaseFile) error {
			file.PushItem(act.Item)
			return nil
		})
		if err != nil {
			return fmt.Errorf("update casefile %d: %w", act.ID, err)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Successfully wrote new item to Casefile #%d!", act.ID))
	case casefile.VerbRemoveItem:
		removed := "[unable to find item]"
		err := e.Cases.Update(ctx, act.ID, func(file *casefile.CaseFile) error {
			switch {
			case act.Index >= 0 && act.Index < len(file.Items):
				removed = file.Items[act.Index]
				file.Items = append(file.Items[:act.Index], file.Items[act.Index+1:]...)
			case act.Index < 0 && len(file.Items) > 0:
				removed = file.Items[len(file.Items)-1]
				file.Items = file.Items[:len(file.Items)-1]
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("update casefile %d: %w", act.ID, err)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Removed item `%s` from Casefile #%d.", removed, act.ID))
	case casefile.VerbDelete:
		if err := e.Cases.Delete(ctx, act.ID); err != nil {
			return fmt.Errorf("delete casefile %d: %w", act.ID, err)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID,
			fmt.Sprintf("Successfully removed Casefile #%d.", act.ID))
	case casefile.VerbViewAll:
		files, err := e.Cases.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list casefiles: %w", err)
		}
		var sb strings.Builder
		sb.WriteString("Here's all the casefiles: \n")
		for _, file := range files {
			fmt.Fprintf(&sb, "#%d [%s] | %s\n", file.ID, file.Resolution(), file.Name)
		}
		return e.Gateway.SendMessage(ctx, in.ChannelID, sb.String())
	}
	return fmt.Errorf("unhandled casefile verb %d", act.Verb)
}
