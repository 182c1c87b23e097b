package core

import (
	"context"

	"templebot/internal/command"
	"templebot/internal/locale"
	"templebot/internal/version"
)

func newInfo() *command.Command {
	return command.MustNew(command.Config{
		Name:           "info",
		Aliases:        []string{"about"},
		Category:       command.CategoryGeneral,
		UsableInGuilds: true,
		UsableInDMs:    true,
		Run: func(ctx context.Context, inv *command.Invocation) error {
			lang := inv.Language
			return inv.Respond.SendEmbed(ctx, inv.ChannelID, &command.Embed{
				Title:       locale.Get(lang, "command.info.title"),
				Description: locale.Get(lang, "command.info.general"),
				Fields: []command.EmbedField{
					{
						Name:   locale.Get(lang, "command.info.version.title"),
						Value:  locale.Get(lang, "command.info.version.description", version.Version, version.BuildDate),
						Inline: true,
					},
					{
						Name:   locale.Get(lang, "command.info.runtime.title"),
						Value:  locale.Get(lang, "command.info.runtime.description", version.GoVersion),
						Inline: true,
					},
				},
				Color: command.ColorLightGreen,
			})
		},
	})
}
