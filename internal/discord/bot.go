package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"server-keeper/internal/casefile"
	"server-keeper/internal/command"
	"server-keeper/internal/config"
	"server-keeper/internal/storage"
	"server-keeper/internal/version"

	"github.com/bwmarrin/discordgo"
)

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    *storage.Storage
	cases    *casefile.Store
	shutdown context.CancelFunc
}

// StartBot starts the Discord bot and blocks until ctx is done. The shutdown
// function is invoked when the developer requests a stop, so the surrounding
// runtime can flush and exit instead of aborting.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage, cases *casefile.Store, shutdown context.CancelFunc) error {
	b := &Bot{cfg: cfg, store: store, cases: cases, shutdown: shutdown}

	dg, err := discordgo.New("Bot " + cfg.Token())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] ✅ %s is running as %s.", version.AppName, r.User.Username)
}

// onMessageCreate handles one incoming message: relay DMs to the developer,
// apply the nickname easter egg, then parse and execute any command.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if b.store.IsBlacklisted(m.Author.ID) {
		return
	}

	ctx := context.Background()
	gw := newGateway(s, m.GuildID, m.ChannelID)
	actor := command.Actor{ID: m.Author.ID, Name: m.Author.Username}

	if m.GuildID == "" {
		// A DM. Relay it to the developer whether or not it is a command.
		relay := fmt.Sprintf("%s sent me a DM:\n> %s", m.Author.Username, m.Content)
		if err := gw.SendDirectMessage(ctx, b.cfg.DeveloperID, relay); err != nil {
			log.Println("[WARN] Failed to relay DM to the dev:", err)
		}
	} else {
		b.maybeKeke(ctx, gw, m)
	}

	parser := &command.Parser{
		Prefix:      b.cfg.Prefix,
		DeveloperID: b.cfg.DeveloperID,
		Auth:        gw,
	}
	exec := &command.Executor{
		Gateway:     gw,
		Members:     b.store,
		Cases:       b.cases,
		Prefix:      b.cfg.Prefix,
		DeveloperID: b.cfg.DeveloperID,
		Shutdown:    func() { b.shutdown() },
	}

	cmd := parser.Parse(m.Content, actor)
	if err := exec.Execute(ctx, cmd, command.Incoming{ChannelID: m.ChannelID, Actor: actor}); err != nil {
		log.Printf("[ERR] Error running %v command: %v", cmd.Kind(), err)
	}
}

// maybeKeke renames an opted-in author who introduces themselves. Names over
// the 32-character nickname limit get a negative announcement instead of a
// rename.
func (b *Bot) maybeKeke(ctx context.Context, gw *Gateway, m *discordgo.MessageCreate) {
	if !b.store.IsOptedIn(m.Author.ID) {
		return
	}
	name, ok := introducedName(m.Content)
	if !ok {
		return
	}

	author := m.Author.Username
	if utf8.RuneCountInString(name) > 32 {
		text := fmt.Sprintf("%s is NOT `%s`!\n\nWanna optout? use %soptout!", author, name, b.cfg.Prefix)
		if err := gw.SendMessage(ctx, m.ChannelID, text); err != nil {
			log.Println("[WARN] Failed to announce keke:", err)
		}
		return
	}
	if err := gw.RenameMember(ctx, m.Author.ID, name); err != nil {
		log.Println("[WARN] Failed to rename member:", err)
		return
	}
	text := fmt.Sprintf("%s is `%s`!\n\nWanna optout? use %soptout!", author, name, b.cfg.Prefix)
	if err := gw.SendMessage(ctx, m.ChannelID, text); err != nil {
		log.Println("[WARN] Failed to announce keke:", err)
	}
}

// introducedName extracts the name from a message starting with "i'm " or
// "i am ", case-insensitively.
func introducedName(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, prefix := range []string{"i'm ", "i am "} {
		if strings.HasPrefix(lower, prefix) {
			name := strings.TrimSpace(content[len(prefix):])
			return name, name != ""
		}
	}
	return "", false
}
