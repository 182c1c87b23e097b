// Package core holds the built-in commands every deployment gets: help,
// prefix, language, and info.
package core

import (
	"context"

	"github.com/rs/zerolog"

	"templebot/internal/command"
	"templebot/internal/storage"
)

// Paginator drives a multi-page embed response. The transport adapter
// provides it.
type Paginator interface {
	Paginate(ctx context.Context, channelID string, pages []*command.Embed) error
}

// Deps carries the collaborators the built-in commands need.
type Deps struct {
	Log       zerolog.Logger
	Registry  *command.Registry
	Storage   *storage.Storage
	Settings  *storage.SettingsCache
	Paginator Paginator
}

// Register adds the built-in commands to the registry.
func Register(deps Deps) {
	deps.Registry.Register(newHelp(deps))
	deps.Registry.Register(newPrefix(deps))
	deps.Registry.Register(newLanguage(deps))
	deps.Registry.Register(newInfo())
}
