package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(list *ArgumentList) []string {
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.At(i))
	}
	return out
}

func TestTokenizeSplitsOnSpaces(t *testing.T) {
	list := Tokenize("a b c")
	assert.Equal(t, []string{"a", "b", "c"}, tokens(list))
	assert.Equal(t, 3, list.FilteredLen())
}

func TestTokenizeEmptyContent(t *testing.T) {
	list := Tokenize("")
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.HasNext(false))
	assert.Equal(t, "", list.Next(true, true))
}

func TestTokenizeQuotedSpan(t *testing.T) {
	list := Tokenize(`"a b" c`)
	assert.Equal(t, []string{"a b", "c"}, tokens(list))
}

func TestTokenizeSingleQuotedSpan(t *testing.T) {
	list := Tokenize(`'a b' c`)
	assert.Equal(t, []string{"a b", "c"}, tokens(list))
}

func TestTokenizeEscapedSpace(t *testing.T) {
	list := Tokenize(`a\ b`)
	assert.Equal(t, []string{"a b"}, tokens(list))
}

func TestTokenizeEscapedQuote(t *testing.T) {
	list := Tokenize(`"a \" b"`)
	assert.Equal(t, []string{`a " b`}, tokens(list))
}

func TestTokenizeGluesLiteralQuote(t *testing.T) {
	// The closing quote is followed by more text, so it was literal: the
	// quoted token is reopened with the quote character restored.
	list := Tokenize(`"ab"c`)
	assert.Equal(t, []string{`ab"c`}, tokens(list))
}

func TestTokenizeQuoteInsideTokenIsLiteral(t *testing.T) {
	// A quote only opens a span at the start of a token.
	list := Tokenize(`a"b"c`)
	assert.Equal(t, []string{`a"b"c`}, tokens(list))
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	list := Tokenize(`"abc`)
	assert.Equal(t, []string{`"abc`}, tokens(list))
}

func TestTokenizeConsecutiveSpacesProduceEmptyTokens(t *testing.T) {
	list := Tokenize("a  b")
	assert.Equal(t, []string{"a", "", "b"}, tokens(list))
	assert.Equal(t, 2, list.FilteredLen())
}

func TestTokenizeNonSpaceWhitespaceBecomesMarker(t *testing.T) {
	list := Tokenize("a\tb")
	require.Equal(t, []string{"a", "\t", "b"}, tokens(list))
	assert.Equal(t, 2, list.FilteredLen())

	// Skipping markers yields only the real tokens.
	assert.Equal(t, "a", list.Next(true, true))
	assert.Equal(t, "b", list.Next(true, true))
	assert.False(t, list.HasNext(true))

	// Without skipping, the marker is visible.
	list.SetIndex(1)
	assert.Equal(t, "\t", list.Next(false, true))
}

func TestRemaining(t *testing.T) {
	list := Tokenize("a b c")
	assert.Equal(t, "a b c", list.Remaining())
	assert.False(t, list.HasNext(false))
}

func TestRemainingAfterAdvance(t *testing.T) {
	list := Tokenize("sub arg1 arg2")
	require.Equal(t, "sub", list.Next(true, true))
	assert.Equal(t, "arg1 arg2", list.Remaining())
}

func TestRemainingSkipsSeparatorAroundMarkers(t *testing.T) {
	list := Tokenize("a\tb")
	assert.Equal(t, "a\tb", list.Remaining())
}

func TestRemainingPreservesConsecutiveSpaces(t *testing.T) {
	// The zero-length token between "a" and "b" keeps its space on both
	// sides; only whitespace markers suppress the joining space.
	list := Tokenize("a  b")
	assert.Equal(t, "a  b", list.Remaining())
}

func TestSliceIsIndependent(t *testing.T) {
	list := Tokenize("sub arg1 arg2")
	rest := list.Slice(1, list.Len())
	require.Equal(t, []string{"arg1", "arg2"}, tokens(rest))
	assert.Equal(t, 0, rest.Index())

	// Advancing the copy leaves the original untouched.
	rest.Next(true, true)
	assert.Equal(t, 0, list.Index())
}

func TestNextWithoutAdvancePeeks(t *testing.T) {
	list := Tokenize("a b")
	assert.Equal(t, "a", list.Peek())
	assert.Equal(t, "a", list.Next(true, true))
	assert.Equal(t, "a", list.Current())
	assert.Equal(t, "b", list.Peek())
}

func TestNextExhausted(t *testing.T) {
	list := Tokenize("a")
	require.Equal(t, "a", list.Next(true, true))
	assert.Equal(t, "", list.Next(true, true))
	assert.Equal(t, "", list.Next(false, true))
}
