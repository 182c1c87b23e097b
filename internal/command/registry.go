package command

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Registry is the command table. It is an explicit value owned by the
// application's startup context and passed into the dispatch pipeline; there
// is no ambient global table. Every command is reachable under its name and
// each of its aliases, case-insensitively.
type Registry struct {
	log      zerolog.Logger
	commands map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		log:      log.With().Str("component", "registry").Logger(),
		commands: make(map[string]*Command),
	}
}

// Register inserts cmd under its name and every alias. If any of those keys
// is already taken the whole registration is dropped and logged; the first
// registration wins and registration never panics.
func (r *Registry) Register(cmd *Command) {
	keys := append([]string{cmd.Name()}, cmd.Aliases()...)
	for _, key := range keys {
		if existing, ok := r.commands[strings.ToLower(key)]; ok {
			r.log.Warn().
				Str("command", cmd.Name()).
				Str("key", key).
				Str("taken_by", existing.Name()).
				Msg("command is already registered, dropping registration")
			return
		}
	}
	for _, key := range keys {
		r.commands[strings.ToLower(key)] = cmd
	}
}

// Get returns the command registered under name or any alias,
// case-insensitively, or nil.
func (r *Registry) Get(name string) *Command {
	return r.commands[strings.ToLower(name)]
}

// All returns every distinct command, sorted by name.
func (r *Registry) All() []*Command {
	seen := make(map[string]bool)
	list := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if seen[cmd.Name()] {
			continue
		}
		seen[cmd.Name()] = true
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// ByCategory returns the distinct commands of one help category. The default
// order is by name; a nonzero help-page position overrides it.
func (r *Registry) ByCategory(category Category) []*Command {
	var list []*Command
	for _, cmd := range r.All() {
		if cmd.Category() == category {
			list = append(list, cmd)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].HelpPagePosition() < list[j].HelpPagePosition()
	})
	return list
}
