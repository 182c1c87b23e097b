package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"templebot/internal/command"
)

// responder implements command.Responder on a gateway session.
type responder struct {
	session *discordgo.Session
}

func (r *responder) SendText(ctx context.Context, channelID, content string) error {
	_, err := r.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

func (r *responder) SendEmbed(ctx context.Context, channelID string, embed *command.Embed) error {
	_, err := r.session.ChannelMessageSendEmbed(channelID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	return err
}

func (r *responder) React(ctx context.Context, channelID, messageID, emoji string) error {
	return r.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (r *responder) RemoveReactions(ctx context.Context, channelID, messageID string) error {
	return r.session.MessageReactionsRemoveAll(channelID, messageID, discordgo.WithContext(ctx))
}

func toMessageEmbed(embed *command.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return out
}
