package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"templebot/internal/cache"
	"templebot/internal/command"
	"templebot/internal/commands/core"
	"templebot/internal/config"
	"templebot/internal/discord"
	"templebot/internal/dispatch"
	"templebot/internal/logging"
	"templebot/internal/permission"
	"templebot/internal/storage"
	"templebot/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logging.New(cfg.LogLevel)
	log.Info().
		Str("app", version.AppName).
		Str("version", version.Version).
		Msg("starting")

	store, err := storage.New(cfg.StoragePath, cfg.DefaultPrefix, cfg.DefaultLanguage)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.StoragePath).Msg("failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()
	settings := storage.NewSettingsCache(store, cfg.SettingsCacheTTL)

	entityCache := cache.New()
	resolver := permission.NewResolver(entityCache, store)

	registry := command.NewRegistry(log)

	var bot *discord.Bot
	dispatcher := dispatch.New(log, entityCache, resolver, cfg.BotOwnerIDs, func() string {
		return bot.SelfID()
	})

	bot, err = discord.New(log, cfg.DiscordToken, entityCache, registry, dispatcher, settings)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	core.Register(core.Deps{
		Log:       log,
		Registry:  registry,
		Storage:   store,
		Settings:  settings,
		Paginator: bot,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go settings.RunSweeper(ctx)

	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("stopped")
}
