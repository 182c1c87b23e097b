package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"templebot/internal/command"
	"templebot/internal/locale"
	"templebot/internal/ratelimit"
)

func newHelp(deps Deps) *command.Command {
	return command.MustNew(command.Config{
		Name:           "help",
		Aliases:        []string{"commands"},
		Category:       command.CategoryGeneral,
		UsableInGuilds: true,
		UsableInDMs:    true,
		Ratelimit:      ratelimit.Channel,
		Bandwidths: []ratelimit.Bandwidth{
			ratelimit.Simple(3, 10*time.Second),
			ratelimit.Simple(7, time.Hour),
		},
		Run: func(ctx context.Context, inv *command.Invocation) error {
			if inv.Args.HasNext(true) {
				return runHelpDetail(ctx, deps, inv)
			}
			return deps.Paginator.Paginate(ctx, inv.ChannelID, helpPages(deps, inv))
		},
	})
}

// runHelpDetail resolves `help <command> [sub...]` down the command tree and
// answers with the detail embed of the node it lands on.
func runHelpDetail(ctx context.Context, deps Deps, inv *command.Invocation) error {
	name := inv.Args.Next(true, true)
	cmd := deps.Registry.Get(name)
	if cmd == nil {
		return command.InvalidArgument("help.unknown.command", name)
	}
	path := []string{cmd.Name()}
	for inv.Args.HasNext(true) {
		token := inv.Args.Next(true, true)
		sub := cmd.SubCommand(token)
		if sub == nil {
			return command.InvalidArgument("help.unknown.command", strings.Join(append(path, token), " "))
		}
		cmd = sub
		path = append(path, cmd.Name())
	}

	lang := inv.Language
	embed := &command.Embed{
		Title:       locale.Get(lang, "help.command.title", strings.Join(path, " ")),
		Description: locale.Get(lang, "help."+strings.Join(path, ".")+".detailed"),
		Color:       command.ColorLightGreen,
	}
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		embed.Fields = append(embed.Fields, command.EmbedField{
			Name:  locale.Get(lang, "help.aliases.title"),
			Value: strings.Join(aliases, ", "),
		})
	}
	if cmd.IsCollection() {
		embed.Fields = append(embed.Fields, command.EmbedField{
			Name:  locale.Get(lang, "help.subcommands.title"),
			Value: strings.Join(subCommandNames(cmd), ", "),
		})
	}
	return inv.Respond.SendEmbed(ctx, inv.ChannelID, embed)
}

// helpPages renders one page per help category, ordered by page number.
func helpPages(deps Deps, inv *command.Invocation) []*command.Embed {
	categories := make(map[command.Category]bool)
	for _, cmd := range deps.Registry.All() {
		categories[cmd.Category()] = true
	}
	ordered := make([]command.Category, 0, len(categories))
	for cat := range categories {
		ordered = append(ordered, cat)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].HelpPage != ordered[j].HelpPage {
			return ordered[i].HelpPage < ordered[j].HelpPage
		}
		return ordered[i].Key < ordered[j].Key
	})

	lang := inv.Language
	pages := make([]*command.Embed, 0, len(ordered))
	for i, cat := range ordered {
		var lines []string
		for _, cmd := range deps.Registry.ByCategory(cat) {
			lines = append(lines, locale.Get(lang, "help."+cmd.Name()+".short", inv.Prefix))
		}
		pages = append(pages, &command.Embed{
			Title:       locale.Get(lang, "help.category.title", locale.Get(lang, cat.Key)),
			Description: strings.Join(lines, "\n"),
			Footer:      locale.Get(lang, "help.category.footer", i+1, len(ordered)),
			Color:       command.ColorLightGreen,
		})
	}
	return pages
}

func subCommandNames(cmd *command.Command) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range cmd.SubCommandKeys() {
		sub := cmd.SubCommand(name)
		if sub == nil || seen[sub.Name()] {
			continue
		}
		seen[sub.Name()] = true
		names = append(names, sub.Name())
	}
	sort.Strings(names)
	return names
}
