package command

import "context"

// Invocation carries everything one command execution needs: who asked, where,
// in which language, and the parsed arguments. GuildID is empty in DMs.
type Invocation struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Prefix    string
	Language  string
	Args      *ArgumentList
	Respond   Responder
}

// WithArgs returns a copy of the invocation carrying a different argument
// list, used when a collection forwards to a sub-command.
func (inv *Invocation) WithArgs(args *ArgumentList) *Invocation {
	out := *inv
	out.Args = args
	return &out
}

// Embed is the structured outbound payload: a transport-agnostic subset of
// what chat platforms render as a rich message.
type Embed struct {
	Title       string
	Description string
	Fields      []EmbedField
	Footer      string
	Color       int
}

// EmbedField is one titled section of an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Responder is the outbound surface commands write through. The transport
// adapter implements it; command bodies stay transport-agnostic.
type Responder interface {
	SendText(ctx context.Context, channelID, content string) error
	SendEmbed(ctx context.Context, channelID string, embed *Embed) error
	React(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReactions(ctx context.Context, channelID, messageID string) error
}

// Embed colors used for failure responses.
const (
	ColorDarkRed    = 0xFF0000
	ColorLightRed   = 0xFF5246
	ColorLightGreen = 0x4BB543
)
