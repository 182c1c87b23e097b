// Package dispatch is the execution pipeline: structural checks, rate
// limiting, and authorization run in order before the executor, so a rejected
// command never produces partial side effects. Failures are mapped to
// user-visible responses at the top; unanticipated ones are logged with full
// invocation context.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"templebot/internal/cache"
	"templebot/internal/command"
	"templebot/internal/locale"
	"templebot/internal/permission"
)

// Dispatcher runs commands through the pipeline.
type Dispatcher struct {
	log      zerolog.Logger
	cache    *cache.Cache
	resolver *permission.Resolver
	owners   map[string]bool
	selfID   func() string
}

// New returns a dispatcher. selfID yields the bot's own user id once the
// session is ready; it is consulted per invocation for the bot-capability
// check.
func New(log zerolog.Logger, c *cache.Cache, resolver *permission.Resolver, botOwnerIDs []string, selfID func() string) *Dispatcher {
	owners := make(map[string]bool, len(botOwnerIDs))
	for _, id := range botOwnerIDs {
		owners[id] = true
	}
	return &Dispatcher{
		log:      log.With().Str("component", "dispatch").Logger(),
		cache:    c,
		resolver: resolver,
		owners:   owners,
		selfID:   selfID,
	}
}

// Dispatch executes cmd and converts any failure into a user-visible
// response describing the failure kind.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *command.Command, inv *command.Invocation) {
	err := d.Execute(ctx, cmd, inv)
	if err == nil {
		return
	}
	kind := command.KindOf(err)
	if kind == command.KindUnknown {
		d.log.Error().
			Err(err).
			Str("command", cmd.Name()).
			Str("guild_id", inv.GuildID).
			Str("channel_id", inv.ChannelID).
			Str("user_id", inv.UserID).
			Msg("unexpected error executing command")
	}
	d.respondFailure(ctx, inv, kind, err)
}

// Execute runs the pipeline for cmd: bot-owner gate, guild/DM applicability,
// rate limit, authorization, bot capabilities, then the executor or the
// sub-command routing of a collection. Errors from a matched sub-command
// propagate unwrapped.
func (d *Dispatcher) Execute(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
	if cmd.BotOwnerOnly() && !d.owners[inv.UserID] {
		return command.NotExecutable("exception.notexecutable")
	}
	if inv.GuildID != "" && !cmd.UsableInGuilds() {
		return command.NotExecutable("exception.notexecutable")
	}
	if inv.GuildID == "" && !cmd.UsableInDMs() {
		return command.NotExecutable("exception.notexecutable")
	}
	if cmd.Ratelimited(inv.GuildID, inv.ChannelID, inv.UserID) {
		return command.Ratelimited("exception.ratelimited.description")
	}
	if err := d.resolver.CheckExecutability(ctx, inv.GuildID, inv.UserID, inv.ChannelID, cmd.Permission(), cmd.GuildOwnerOnly(), cmd.NSFW()); err != nil {
		return err
	}
	if err := d.checkBotCapabilities(cmd, inv); err != nil {
		return err
	}
	if cmd.IsCollection() {
		return d.route(ctx, cmd, inv)
	}
	return cmd.Run(ctx, inv)
}

// route forwards to the sub-command named by the first token, removing that
// token; unmatched input goes to the fallback with the argument list intact.
func (d *Dispatcher) route(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
	if inv.Args.Len() > 0 {
		if sub := cmd.SubCommand(inv.Args.At(0)); sub != nil {
			return d.Execute(ctx, sub, inv.WithArgs(inv.Args.Slice(1, inv.Args.Len())))
		}
	}
	return d.Execute(ctx, cmd.Fallback(), inv)
}

// checkBotCapabilities verifies the bot itself holds the capabilities the
// command needs in the destination channel. Skipped when nothing is declared,
// in DMs, or when the bot's own membership is not cached yet.
func (d *Dispatcher) checkBotCapabilities(cmd *command.Command, inv *command.Invocation) error {
	required := cmd.BotPermissions()
	if required == 0 || inv.GuildID == "" {
		return nil
	}
	guild, ok := d.cache.Guild(inv.GuildID)
	if !ok {
		return nil
	}
	self, ok := guild.Member(d.selfID())
	if !ok {
		return nil
	}
	if self.EffectivePermissions(inv.ChannelID)&required != required {
		return command.BotMissingPermissions("exception.botmissingpermissions.description")
	}
	return nil
}

func (d *Dispatcher) respondFailure(ctx context.Context, inv *command.Invocation, kind command.Kind, err error) {
	if inv.Respond == nil {
		return
	}
	lang := inv.Language
	embed := &command.Embed{Color: command.ColorLightRed}
	switch kind {
	case command.KindInvalidArgument:
		embed.Title = locale.Get(lang, "exception.invalidargument.title")
		embed.Description = errorMessage(lang, err)
	case command.KindMissingPermissions:
		embed.Title = locale.Get(lang, "exception.missingpermissions.title")
		embed.Description = errorMessage(lang, err)
	case command.KindNotExecutable:
		embed.Title = locale.Get(lang, "exception.notexecutable.title")
		embed.Description = errorMessage(lang, err)
	case command.KindRatelimited:
		embed.Title = locale.Get(lang, "exception.ratelimited.title")
		embed.Description = errorMessage(lang, err)
	case command.KindBotMissingPermissions:
		embed.Title = locale.Get(lang, "exception.botmissingpermissions.title")
		embed.Description = errorMessage(lang, err)
	default:
		embed.Title = locale.Get(lang, "exception.unknown.title")
		embed.Description = locale.Get(lang, "exception.unknown.description")
		embed.Color = command.ColorDarkRed
	}
	if sendErr := inv.Respond.SendEmbed(ctx, inv.ChannelID, embed); sendErr != nil {
		d.log.Warn().Err(sendErr).Str("channel_id", inv.ChannelID).Msg("failed to send failure response")
	}
}

func errorMessage(lang string, err error) string {
	var cmdErr *command.Error
	if !errors.As(err, &cmdErr) || cmdErr.Key == "" {
		return locale.Get(lang, "exception.unknown.description")
	}
	return locale.Get(lang, cmdErr.Key, cmdErr.Args...)
}
