package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"templebot/internal/command"
)

const (
	emojiPrev = "⬅"
	emojiNext = "➡"

	// paginationTimeout bounds the wait for the next page-flip reaction so an
	// abandoned help message does not leak a handler.
	paginationTimeout = 2 * time.Minute
)

// Paginate sends pages[0] and drives page flips off the arrow reactions until
// the timeout elapses with no interaction, then strips the reactions. A single
// page short-circuits to a plain embed send.
func (b *Bot) Paginate(ctx context.Context, channelID string, pages []*command.Embed) error {
	if len(pages) == 0 {
		return nil
	}
	msg, err := b.session.ChannelMessageSendEmbed(channelID, toMessageEmbed(pages[0]), discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	if len(pages) == 1 {
		return nil
	}
	for _, emoji := range []string{emojiPrev, emojiNext} {
		if err := b.session.MessageReactionAdd(channelID, msg.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}

	flips := make(chan string, 8)
	removeHandler := b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != msg.ID || r.UserID == b.SelfID() {
			return
		}
		if r.Emoji.Name != emojiPrev && r.Emoji.Name != emojiNext {
			return
		}
		select {
		case flips <- r.Emoji.Name:
		default:
		}
		// Put the arrow back into a clickable state. Needs Manage Messages;
		// flipping still works without it.
		_ = b.session.MessageReactionRemove(channelID, msg.ID, r.Emoji.Name, r.UserID)
	})
	defer removeHandler()

	page := 0
	timeout := time.NewTimer(paginationTimeout)
	defer timeout.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			_ = b.session.MessageReactionsRemoveAll(channelID, msg.ID)
			return nil
		case emoji := <-flips:
			timeout.Reset(paginationTimeout)
			next := page
			if emoji == emojiPrev {
				next--
			} else {
				next++
			}
			if next < 0 || next >= len(pages) || next == page {
				continue
			}
			page = next
			if _, err := b.session.ChannelMessageEditEmbed(channelID, msg.ID, toMessageEmbed(pages[page]), discordgo.WithContext(ctx)); err != nil {
				b.log.Warn().Err(err).Str("channel_id", channelID).Msg("failed to edit paginated message")
			}
		}
	}
}
