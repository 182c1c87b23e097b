package core

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"templebot/internal/command"
	"templebot/internal/locale"
)

func newLanguage(deps Deps) *command.Command {
	get := command.MustNew(command.Config{
		Name:           "get",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Run:            runLanguageGet,
	})
	set := command.MustNew(command.Config{
		Name:           "set",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Permission: &command.Permission{
			Name:    "language.set",
			Default: discordgo.PermissionManageServer,
		},
		Run: runLanguageSet(deps),
	})
	fallback := command.MustNew(command.Config{
		Name:           "language",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Run: func(ctx context.Context, inv *command.Invocation) error {
			if inv.Args.HasNext(true) {
				return command.InvalidArgument("command.language.unknownsub", inv.Prefix, inv.Prefix)
			}
			return runLanguageGet(ctx, inv)
		},
	})
	return command.MustNewCollection(command.CollectionConfig{
		Name:           "language",
		Aliases:        []string{"lang"},
		Category:       command.CategoryGeneral,
		UsableInGuilds: true,
		UsableInDMs:    true,
		SubCommands:    []*command.Command{get, set},
		Fallback:       fallback,
	})
}

func runLanguageGet(ctx context.Context, inv *command.Invocation) error {
	return inv.Respond.SendEmbed(ctx, inv.ChannelID, &command.Embed{
		Title:       locale.Get(inv.Language, "command.language.get.title"),
		Description: locale.Get(inv.Language, "command.language.get.description", inv.Language),
		Color:       command.ColorLightGreen,
	})
}

func runLanguageSet(deps Deps) command.Executor {
	return func(ctx context.Context, inv *command.Invocation) error {
		requested := inv.Args.Next(true, true)
		if requested == "" {
			return command.InvalidArgument("command.language.set.missing", inv.Prefix)
		}
		normalized, ok := locale.Resolve(requested)
		if !ok {
			available := locale.Available()
			sort.Strings(available)
			return command.InvalidArgument("command.language.set.unknown", requested, strings.Join(available, ", "))
		}
		if inv.GuildID != "" {
			if err := deps.Storage.SetGuildLanguage(ctx, inv.GuildID, normalized); err != nil {
				return err
			}
			deps.Settings.InvalidateGuild(inv.GuildID)
		} else {
			if err := deps.Storage.SetUserLanguage(ctx, inv.UserID, normalized); err != nil {
				return err
			}
			deps.Settings.InvalidateUser(inv.UserID)
		}
		return inv.Respond.SendEmbed(ctx, inv.ChannelID, &command.Embed{
			Title:       locale.Get(normalized, "command.language.set.title"),
			Description: locale.Get(normalized, "command.language.set.description", normalized),
			Color:       command.ColorLightGreen,
		})
	}
}
