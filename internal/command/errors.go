package command

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure. Every failure surfaced to the user maps
// to exactly one kind; anything unanticipated is KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindMissingPermissions
	KindNotExecutable
	KindRatelimited
	KindBotMissingPermissions
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindMissingPermissions:
		return "missing_permissions"
	case KindNotExecutable:
		return "not_executable"
	case KindRatelimited:
		return "ratelimited"
	case KindBotMissingPermissions:
		return "bot_missing_permissions"
	default:
		return "unknown"
	}
}

// Error is a command failure carrying a locale key for the user-visible
// description. Args are interpolated into the localized string.
type Error struct {
	Kind Kind
	Key  string
	Args []any
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

// InvalidArgument reports malformed or insufficient user-supplied arguments.
func InvalidArgument(key string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Key: key, Args: args}
}

// MissingPermissions reports an ACL or capability denial, including the
// not-cached case where the data needed for the check is unavailable.
func MissingPermissions(key string, args ...any) *Error {
	return &Error{Kind: KindMissingPermissions, Key: key, Args: args}
}

// NotExecutable reports a command invoked in a context it does not apply to.
func NotExecutable(key string, args ...any) *Error {
	return &Error{Kind: KindNotExecutable, Key: key, Args: args}
}

// Ratelimited reports an exhausted rate-limit bucket.
func Ratelimited(key string, args ...any) *Error {
	return &Error{Kind: KindRatelimited, Key: key, Args: args}
}

// BotMissingPermissions reports that the bot itself lacks the capabilities a
// command needs in the destination channel.
func BotMissingPermissions(key string, args ...any) *Error {
	return &Error{Kind: KindBotMissingPermissions, Key: key, Args: args}
}

// KindOf extracts the failure kind from err, or KindUnknown for anything that
// is not a *Error.
func KindOf(err error) Kind {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind
	}
	return KindUnknown
}
