// Package discord adapts the transport-agnostic command core to a Discord
// gateway session: it owns the session lifecycle, turns inbound messages into
// invocations, and implements the response surface commands write to.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"templebot/internal/cache"
	"templebot/internal/command"
	"templebot/internal/dispatch"
	"templebot/internal/storage"
)

// Bot ties the gateway session to the dispatch pipeline.
type Bot struct {
	log        zerolog.Logger
	session    *discordgo.Session
	cache      *cache.Cache
	registry   *command.Registry
	dispatcher *dispatch.Dispatcher
	settings   *storage.SettingsCache
}

// New builds the session and wires the gateway handlers. The session is not
// opened until Run.
func New(log zerolog.Logger, token string, c *cache.Cache, registry *command.Registry, dispatcher *dispatch.Dispatcher, settings *storage.SettingsCache) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		log:        log.With().Str("component", "discord").Logger(),
		session:    session,
		cache:      c,
		registry:   registry,
		dispatcher: dispatcher,
		settings:   settings,
	}
	c.BindSession(session)
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Session exposes the underlying gateway session.
func (b *Bot) Session() *discordgo.Session { return b.session }

// SelfID returns the bot's own user id, empty before the ready event.
func (b *Bot) SelfID() string {
	if b.session.State == nil || b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.ID
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening session: %w", err)
	}
	b.log.Info().Msg("gateway connection open")
	<-ctx.Done()
	b.log.Info().Msg("shutting down")
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("username", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("session ready")
}
