package command

import (
	"context"
	"fmt"
	"strings"

	"templebot/internal/ratelimit"
)

// Executor is a leaf command body. It runs only after every structural,
// rate-limit, and authorization check has passed.
type Executor func(ctx context.Context, inv *Invocation) error

// Permission names the ACL permission a command is gated on, plus the
// capability set a caller must hold when no ACL rows are configured for it.
type Permission struct {
	Name    string
	Default int64
}

// Category groups commands on the help pages. It has no effect on dispatch.
type Category struct {
	Key      string
	HelpPage int
}

// CategoryGeneral is the default category.
var CategoryGeneral = Category{Key: "commandcategory.general", HelpPage: 1}

// Command is an immutable command descriptor. It is either a leaf holding an
// executor, or a collection holding a sub-command table and a fallback for
// unmatched input; never both.
type Command struct {
	name             string
	aliases          []string
	category         Category
	helpPagePosition int
	usableInGuilds   bool
	usableInDMs      bool
	nsfw             bool
	botOwnerOnly     bool
	guildOwnerOnly   bool
	permission       *Permission
	botPermissions   int64
	limiter          *ratelimit.Limiter

	executor    Executor
	subCommands map[string]*Command
	fallback    *Command
}

// Config declares a leaf command. It is assembled once at startup and
// validated by New.
type Config struct {
	Name             string
	Aliases          []string
	Category         Category
	HelpPagePosition int
	// UsableInGuilds/UsableInDMs declare where the command applies. Leaving
	// both false means guild-only, the common case.
	UsableInGuilds bool
	UsableInDMs    bool
	NSFW           bool
	BotOwnerOnly   bool
	GuildOwnerOnly bool
	Permission     *Permission
	// BotPermissions is the capability set the bot itself needs in the
	// destination channel.
	BotPermissions int64
	Ratelimit      ratelimit.Strategy
	Bandwidths     []ratelimit.Bandwidth
	Run            Executor
}

// New validates cfg and builds an immutable leaf command.
func New(cfg Config) (*Command, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("command without a name")
	}
	if cfg.Run == nil {
		return nil, fmt.Errorf("command %s has no executor", cfg.Name)
	}
	c := newCommon(cfg)
	c.executor = cfg.Run
	return c, nil
}

// MustNew is New for static registrations that cannot fail at runtime.
func MustNew(cfg Config) *Command {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// CollectionConfig declares a collection command: its own behavior is to
// route the first argument to a named sub-command, or to Fallback when no
// sub-command matches.
type CollectionConfig struct {
	Name             string
	Aliases          []string
	Category         Category
	HelpPagePosition int
	UsableInGuilds   bool
	UsableInDMs      bool
	BotOwnerOnly     bool
	GuildOwnerOnly   bool
	Permission       *Permission
	Ratelimit        ratelimit.Strategy
	Bandwidths       []ratelimit.Bandwidth
	SubCommands      []*Command
	Fallback         *Command
}

// NewCollection validates cfg and builds an immutable collection command.
// Sub-command names and aliases share one case-insensitive table; a collision
// inside it is an error since the set is fixed at startup. A missing fallback
// is an error for the same reason.
func NewCollection(cfg CollectionConfig) (*Command, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("command collection without a name")
	}
	if cfg.Fallback == nil {
		return nil, fmt.Errorf("command collection %s has no fallback handler", cfg.Name)
	}
	subs := make(map[string]*Command, len(cfg.SubCommands))
	for _, sub := range cfg.SubCommands {
		for _, key := range append([]string{sub.name}, sub.aliases...) {
			lower := strings.ToLower(key)
			if _, exists := subs[lower]; exists {
				return nil, fmt.Errorf("sub command %s of %s is already registered", key, cfg.Name)
			}
			subs[lower] = sub
		}
	}
	c := newCommon(Config{
		Name:             cfg.Name,
		Aliases:          cfg.Aliases,
		Category:         cfg.Category,
		HelpPagePosition: cfg.HelpPagePosition,
		UsableInGuilds:   cfg.UsableInGuilds,
		UsableInDMs:      cfg.UsableInDMs,
		BotOwnerOnly:     cfg.BotOwnerOnly,
		GuildOwnerOnly:   cfg.GuildOwnerOnly,
		Permission:       cfg.Permission,
		Ratelimit:        cfg.Ratelimit,
		Bandwidths:       cfg.Bandwidths,
	})
	c.subCommands = subs
	c.fallback = cfg.Fallback
	return c, nil
}

// MustNewCollection is NewCollection for static registrations.
func MustNewCollection(cfg CollectionConfig) *Command {
	c, err := NewCollection(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func newCommon(cfg Config) *Command {
	usableInGuilds, usableInDMs := cfg.UsableInGuilds, cfg.UsableInDMs
	if !usableInGuilds && !usableInDMs {
		usableInGuilds = true
	}
	return &Command{
		name:             cfg.Name,
		aliases:          cfg.Aliases,
		category:         cfg.Category,
		helpPagePosition: cfg.HelpPagePosition,
		usableInGuilds:   usableInGuilds,
		usableInDMs:      usableInDMs,
		nsfw:             cfg.NSFW,
		botOwnerOnly:     cfg.BotOwnerOnly,
		guildOwnerOnly:   cfg.GuildOwnerOnly,
		permission:       cfg.Permission,
		botPermissions:   cfg.BotPermissions,
		limiter:          ratelimit.New(cfg.Ratelimit, cfg.Bandwidths...),
	}
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Aliases returns the alias list.
func (c *Command) Aliases() []string { return c.aliases }

// Category returns the help category.
func (c *Command) Category() Category { return c.category }

// HelpPagePosition returns the within-category ordering override.
func (c *Command) HelpPagePosition() int { return c.helpPagePosition }

// UsableInGuilds reports whether the command applies inside guilds.
func (c *Command) UsableInGuilds() bool { return c.usableInGuilds }

// UsableInDMs reports whether the command applies in direct messages.
func (c *Command) UsableInDMs() bool { return c.usableInDMs }

// NSFW reports whether the command is restricted to NSFW channels and DMs.
func (c *Command) NSFW() bool { return c.nsfw }

// BotOwnerOnly reports whether only bot owners may run the command.
func (c *Command) BotOwnerOnly() bool { return c.botOwnerOnly }

// GuildOwnerOnly reports whether only the guild owner may run the command.
func (c *Command) GuildOwnerOnly() bool { return c.guildOwnerOnly }

// Permission returns the required named permission, or nil.
func (c *Command) Permission() *Permission { return c.permission }

// BotPermissions returns the capability set the bot needs in the destination
// channel, zero when unconstrained.
func (c *Command) BotPermissions() int64 { return c.botPermissions }

// IsCollection reports whether the command routes to sub-commands.
func (c *Command) IsCollection() bool { return c.subCommands != nil }

// SubCommand returns the sub-command registered under name (case-insensitive),
// or nil.
func (c *Command) SubCommand(name string) *Command {
	if c.subCommands == nil {
		return nil
	}
	return c.subCommands[strings.ToLower(name)]
}

// SubCommandKeys returns every key of the sub-command table, names and
// aliases alike, in no particular order. Empty for leaves.
func (c *Command) SubCommandKeys() []string {
	keys := make([]string, 0, len(c.subCommands))
	for key := range c.subCommands {
		keys = append(keys, key)
	}
	return keys
}

// Fallback returns the unknown-sub-command handler of a collection, nil for
// leaves.
func (c *Command) Fallback() *Command { return c.fallback }

// Run invokes the leaf executor. Routing for collections is the pipeline's
// job; calling Run on a collection is a programming error.
func (c *Command) Run(ctx context.Context, inv *Invocation) error {
	return c.executor(ctx, inv)
}

// Ratelimited consumes one rate-limit token for the identity tuple and
// reports whether the invocation must be rejected.
func (c *Command) Ratelimited(guildID, channelID, userID string) bool {
	return c.limiter.Check(guildID, channelID, userID)
}
