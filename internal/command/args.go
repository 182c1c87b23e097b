package command

import (
	"strings"
	"unicode"
)

// ArgumentList is the ordered token sequence produced from the text following
// a command name, plus a read cursor. Tokens are split on whitespace with
// backslash escaping and quoted spans; non-space whitespace characters outside
// quotes become their own one-character tokens, kept as empty-argument markers
// so callers can tell a deliberate blank argument from a plain separator.
type ArgumentList struct {
	args     []string
	index    int
	filtered int
}

// isEmptyArgument reports whether a token is a marker rather than real input:
// a zero-length token or a single whitespace character other than a plain space.
func isEmptyArgument(arg string) bool {
	return len(arg) == 0 || isWhitespaceMarker(arg)
}

// isWhitespaceMarker reports whether a token is a one-character non-space
// whitespace artifact, the kind Tokenize emits for separators like tabs.
func isWhitespaceMarker(arg string) bool {
	runes := []rune(arg)
	return len(runes) == 1 && unicode.IsSpace(runes[0]) && runes[0] != ' '
}

// Tokenize splits content into an ArgumentList.
//
// Rules: whitespace separates tokens unless escaped or inside a quoted span.
// A backslash strips any special meaning from the following character. A quote
// (" or ') opens a span only as the first character of the current token; the
// span ends at the next unescaped matching quote. If the character right after
// a closed span is not whitespace, the quote turns out to have been literal:
// the quoted token is reopened with the quote character appended and
// tokenization keeps appending to it. An unterminated span is flushed with its
// leading quote restored.
func Tokenize(content string) *ArgumentList {
	list := &ArgumentList{filtered: -1}
	if content == "" {
		return list
	}
	var (
		escaped    bool
		inQuotes   bool
		endedQuote bool
		quoteChar  rune
		curr       strings.Builder
	)
	for _, c := range content {
		if endedQuote {
			endedQuote = false
			if unicode.IsSpace(c) {
				if c != ' ' {
					list.args = append(list.args, string(c))
				}
				quoteChar = 0
				continue
			}
			// The quote was literal after all: pop the quoted token and
			// continue appending to it, quote character included.
			last := list.args[len(list.args)-1]
			list.args = list.args[:len(list.args)-1]
			curr.Reset()
			curr.WriteString(last)
			curr.WriteRune(quoteChar)
			quoteChar = 0
		}
		if unicode.IsSpace(c) && !inQuotes && !escaped {
			list.args = append(list.args, curr.String())
			curr.Reset()
			if c != ' ' {
				list.args = append(list.args, string(c))
			}
			continue
		}
		if quoteChar != 0 && c == quoteChar && !escaped {
			list.args = append(list.args, curr.String())
			curr.Reset()
			inQuotes = false
			endedQuote = true
			continue
		}
		if c == '\\' && !escaped {
			escaped = true
			continue
		}
		if (c == '"' || c == '\'') && !escaped && !inQuotes && curr.Len() == 0 {
			inQuotes = true
			quoteChar = c
			continue
		}
		escaped = false
		curr.WriteRune(c)
	}
	if !endedQuote && curr.Len() > 0 {
		if inQuotes {
			list.args = append(list.args, string(quoteChar)+curr.String())
		} else {
			list.args = append(list.args, curr.String())
		}
	}
	return list
}

// Len returns the total number of tokens, markers included.
func (a *ArgumentList) Len() int { return len(a.args) }

// FilteredLen returns the number of non-empty tokens. The count is computed
// once and cached.
func (a *ArgumentList) FilteredLen() int {
	if a.filtered != -1 {
		return a.filtered
	}
	n := 0
	for _, arg := range a.args {
		if !isEmptyArgument(arg) {
			n++
		}
	}
	a.filtered = n
	return n
}

// At returns the token at position i without touching the cursor.
func (a *ArgumentList) At(i int) string { return a.args[i] }

// HasNext reports whether a read is possible from the current cursor position.
// With skipEmpty, marker tokens do not count.
func (a *ArgumentList) HasNext(skipEmpty bool) bool {
	if !skipEmpty {
		return a.index < len(a.args)
	}
	for j := a.index; j < len(a.args); j++ {
		if !isEmptyArgument(a.args[j]) {
			return true
		}
	}
	return false
}

// Next returns the next token. With skipEmpty the cursor first moves past any
// marker tokens; with advance the cursor moves past the returned token.
// Returns "" when the list is exhausted.
func (a *ArgumentList) Next(skipEmpty, advance bool) string {
	if skipEmpty {
		for a.index < len(a.args) && isEmptyArgument(a.args[a.index]) {
			a.index++
		}
	}
	if a.index >= len(a.args) {
		return ""
	}
	arg := a.args[a.index]
	if advance {
		a.index++
	}
	return arg
}

// Peek returns the next non-empty token without advancing.
func (a *ArgumentList) Peek() string { return a.Next(true, false) }

// Current returns the token last returned by an advancing read.
func (a *ArgumentList) Current() string {
	if a.index == 0 || len(a.args) == 0 {
		return ""
	}
	return a.args[a.index-1]
}

// Remaining concatenates every token from the cursor to the end and moves the
// cursor to the end. A single space is inserted between two consecutive tokens
// unless either of them is a whitespace marker, which already carries its own
// separator. Zero-length tokens do get the space on both sides, so runs of
// consecutive spaces survive the round trip.
func (a *ArgumentList) Remaining() string {
	var sb strings.Builder
	for i := a.index; i < len(a.args); i++ {
		if i > a.index && !isWhitespaceMarker(a.args[i]) && !isWhitespaceMarker(a.args[i-1]) {
			sb.WriteString(" ")
		}
		sb.WriteString(a.args[i])
	}
	a.index = len(a.args)
	return sb.String()
}

// Slice returns an independent copy of the [from, to) token range with its own
// cursor starting at zero. The copy does not alias this list.
func (a *ArgumentList) Slice(from, to int) *ArgumentList {
	out := &ArgumentList{filtered: -1}
	out.args = append(out.args, a.args[from:to]...)
	return out
}

// Index returns the cursor position.
func (a *ArgumentList) Index() int { return a.index }

// SetIndex resets the cursor to i.
func (a *ArgumentList) SetIndex(i int) { a.index = i }
