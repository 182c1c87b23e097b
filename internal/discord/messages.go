package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"templebot/internal/command"
	"templebot/internal/locale"
)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.WebhookID != "" {
		return
	}
	go b.handleMessage(context.Background(), m)
}

func (b *Bot) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	prefix, language, err := b.resolveSettings(ctx, m)
	if err != nil {
		b.log.Warn().Err(err).Str("guild_id", m.GuildID).Msg("failed to resolve settings")
		return
	}
	lang := locale.Normalize(language)

	remainder, ok := stripInvocation(m.Content, prefix, b.SelfID())
	if !ok {
		return
	}
	name, argText, ok := splitCommand(remainder)
	if !ok {
		return
	}
	cmd := b.registry.Get(name)
	if cmd == nil {
		return
	}

	// Cache the author's membership before authorization runs so a fresh
	// member is never reported as not cached.
	if m.GuildID != "" && m.Member != nil {
		b.cache.UpsertMember(m.GuildID, m.Author.ID, m.Member.Roles)
	}

	inv := &command.Invocation{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		UserID:    m.Author.ID,
		Prefix:    prefix,
		Language:  lang,
		Args:      command.Tokenize(argText),
		Respond:   &responder{session: b.session},
	}
	b.dispatcher.Dispatch(ctx, cmd, inv)
}

func (b *Bot) resolveSettings(ctx context.Context, m *discordgo.MessageCreate) (prefix, language string, err error) {
	if m.GuildID != "" {
		return b.settings.GuildSettings(ctx, m.GuildID)
	}
	return b.settings.UserSettings(ctx, m.Author.ID)
}

// stripInvocation removes the configured prefix or a leading mention of the
// bot. A mention counts as a prefix regardless of the configured one; exactly
// one space after it is swallowed, so further spaces surface as empty
// arguments like they do after a plain prefix.
func stripInvocation(content, prefix, selfID string) (string, bool) {
	if selfID != "" {
		for _, mention := range []string{"<@" + selfID + ">", "<@!" + selfID + ">"} {
			if strings.HasPrefix(content, mention) {
				return strings.TrimPrefix(content[len(mention):], " "), true
			}
		}
	}
	if prefix != "" && strings.HasPrefix(content, prefix) {
		return content[len(prefix):], true
	}
	return "", false
}

// splitCommand separates the command name from the argument text. A prefix
// directly followed by a space is not an invocation.
func splitCommand(remainder string) (name, argText string, ok bool) {
	if remainder == "" {
		return "", "", false
	}
	idx := strings.IndexByte(remainder, ' ')
	switch {
	case idx == 0:
		return "", "", false
	case idx < 0:
		return remainder, "", true
	default:
		return remainder[:idx], remainder[idx+1:], true
	}
}
