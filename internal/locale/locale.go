// Package locale holds the user-visible string tables. Language tags are
// normalized to their base language; anything unknown falls back to English.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

const fallback = "en"

var tables = map[string]map[string]string{
	"en": {
		"commandcategory.general": "General",

		"exception.invalidargument.title":             "Invalid arguments",
		"exception.invalidargument.description":       "The arguments you passed are not valid for this command.",
		"exception.missingpermissions.title":          "Missing permissions",
		"exception.missingpermissions":                "You do not have the permission to use this command.",
		"exception.notcached":                         "Required data is not available yet, please try again in a moment.",
		"exception.requiresguildowner":                "Only the server owner can use this command.",
		"exception.requiresnsfwchannel":               "This command can only be used in NSFW channels.",
		"exception.notexecutable.title":               "Not executable",
		"exception.notexecutable":                     "This command cannot be used here.",
		"exception.ratelimited.title":                 "Slow down",
		"exception.ratelimited.description":           "You are using this command too often, try again later.",
		"exception.botmissingpermissions.title":       "Missing bot permissions",
		"exception.botmissingpermissions.description": "I lack the permissions required to do that in this channel.",
		"exception.unknown.title":                     "Something went wrong",
		"exception.unknown.description":               "An unexpected error occurred. It has been logged.",

		"help.category.title":  "Help: %s",
		"help.category.footer": "Page %d/%d",
		"help.command.title":   "Help for %s",
		"help.unknown.command": "There is no command named `%s`.",

		"help.help.short":            "`%shelp` shows this help",
		"help.help.detailed":         "Browse commands page by page, or pass a command name (and sub-command) for details.",
		"help.prefix.short":          "`%sprefix` shows or changes the bot prefix",
		"help.prefix.detailed":       "Shows or changes the prefix, via the `get` and `set <prefix>` sub-commands.",
		"help.prefix.get.detailed":   "Shows the prefix the bot currently reacts to.",
		"help.prefix.set.detailed":   "Changes the prefix. Requires the Manage Server permission.",
		"help.language.short":        "`%slanguage` shows or changes the bot language",
		"help.language.detailed":     "Shows or changes the language, via the `get` and `set <language>` sub-commands.",
		"help.language.get.detailed": "Shows the language the bot currently answers in.",
		"help.language.set.detailed": "Changes the language. Requires the Manage Server permission.",
		"help.info.short":            "`%sinfo` shows bot and runtime information",
		"help.info.detailed":         "Shows version and runtime information about this bot.",
		"help.aliases.title":         "Aliases",
		"help.subcommands.title":     "Sub-commands",

		"command.prefix.get.title":       "Prefix",
		"command.prefix.get.description": "My prefix here is `%s`.",
		"command.prefix.set.title":       "Prefix changed",
		"command.prefix.set.description": "From now on I react to `%s`.",
		"command.prefix.set.missing":     "You need to pass the new prefix, e.g. `%sprefix set !`.",
		"command.prefix.unknownsub":      "Unknown sub-command. Use `%sprefix get` or `%sprefix set <prefix>`.",

		"command.language.get.title":       "Language",
		"command.language.get.description": "I currently answer in `%s`.",
		"command.language.set.title":       "Language changed",
		"command.language.set.description": "From now on I answer in `%s`.",
		"command.language.set.missing":     "You need to pass the new language, e.g. `%slanguage set en`.",
		"command.language.set.unknown":     "I do not speak `%s`. Available: %s.",
		"command.language.unknownsub":      "Unknown sub-command. Use `%slanguage get` or `%slanguage set <language>`.",

		"command.info.title":               "About this bot",
		"command.info.general":             "A template chat bot with a command dispatch core.",
		"command.info.version.title":       "Version",
		"command.info.version.description": "%s (built %s)",
		"command.info.runtime.title":       "Runtime",
		"command.info.runtime.description": "%s",
	},
}

// Resolve reduces a language tag to its base language and reports whether a
// string table exists for it. Regional variants resolve to their base, so
// "en-US" yields "en".
func Resolve(tag string) (string, bool) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := parsed.Base()
	if _, ok := tables[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

// Normalize is Resolve with an English fallback for anything unresolvable.
func Normalize(tag string) string {
	if lang, ok := Resolve(tag); ok {
		return lang
	}
	return fallback
}

// Available returns the languages a string table exists for.
func Available() []string {
	out := make([]string, 0, len(tables))
	for lang := range tables {
		out = append(out, lang)
	}
	return out
}

// Get returns the string for key in the given language, formatted with args.
// Unknown languages fall back to English; an unknown key is returned as-is so
// a missing entry is visible rather than silent.
func Get(lang, key string, args ...any) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[fallback]
	}
	s, ok := table[key]
	if !ok {
		s, ok = tables[fallback][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}
