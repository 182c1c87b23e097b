package core

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"templebot/internal/command"
	"templebot/internal/locale"
)

func newPrefix(deps Deps) *command.Command {
	get := command.MustNew(command.Config{
		Name:           "get",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Run:            runPrefixGet,
	})
	set := command.MustNew(command.Config{
		Name:           "set",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Permission: &command.Permission{
			Name:    "prefix.set",
			Default: discordgo.PermissionManageServer,
		},
		Run: runPrefixSet(deps),
	})
	fallback := command.MustNew(command.Config{
		Name:           "prefix",
		UsableInGuilds: true,
		UsableInDMs:    true,
		Run: func(ctx context.Context, inv *command.Invocation) error {
			if inv.Args.HasNext(true) {
				return command.InvalidArgument("command.prefix.unknownsub", inv.Prefix, inv.Prefix)
			}
			return runPrefixGet(ctx, inv)
		},
	})
	return command.MustNewCollection(command.CollectionConfig{
		Name:           "prefix",
		Category:       command.CategoryGeneral,
		UsableInGuilds: true,
		UsableInDMs:    true,
		SubCommands:    []*command.Command{get, set},
		Fallback:       fallback,
	})
}

func runPrefixGet(ctx context.Context, inv *command.Invocation) error {
	return inv.Respond.SendEmbed(ctx, inv.ChannelID, &command.Embed{
		Title:       locale.Get(inv.Language, "command.prefix.get.title"),
		Description: locale.Get(inv.Language, "command.prefix.get.description", inv.Prefix),
		Color:       command.ColorLightGreen,
	})
}

func runPrefixSet(deps Deps) command.Executor {
	return func(ctx context.Context, inv *command.Invocation) error {
		prefix := inv.Args.Next(true, true)
		if prefix == "" {
			return command.InvalidArgument("command.prefix.set.missing", inv.Prefix)
		}
		if inv.GuildID != "" {
			if err := deps.Storage.SetGuildPrefix(ctx, inv.GuildID, prefix); err != nil {
				return err
			}
			deps.Settings.InvalidateGuild(inv.GuildID)
		} else {
			if err := deps.Storage.SetUserPrefix(ctx, inv.UserID, prefix); err != nil {
				return err
			}
			deps.Settings.InvalidateUser(inv.UserID)
		}
		return inv.Respond.SendEmbed(ctx, inv.ChannelID, &command.Embed{
			Title:       locale.Get(inv.Language, "command.prefix.set.title"),
			Description: locale.Get(inv.Language, "command.prefix.set.description", prefix),
			Color:       command.ColorLightGreen,
		})
	}
}
