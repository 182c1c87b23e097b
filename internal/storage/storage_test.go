package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templebot/internal/permission"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "store.json"), "!", "en")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDefaultsWhenUnset(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	prefix, err := s.GuildPrefix(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)

	language, err := s.UserLanguage(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "en", language)
}

func TestGuildSettingsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetGuildPrefix(ctx, "g1", "?"))
	require.NoError(t, s.SetGuildLanguage(ctx, "g1", "de"))

	prefix, err := s.GuildPrefix(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "?", prefix)

	language, err := s.GuildLanguage(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "de", language)

	// Another guild still sees the defaults.
	prefix, err = s.GuildPrefix(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)
}

func TestUserSettingsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetUserPrefix(ctx, "u1", "$"))
	prefix, err := s.UserPrefix(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "$", prefix)
}

func TestRowsLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rows, err := s.Rows(ctx, "test", "g1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.AddRow(ctx, "test", "g1", permission.Row{TargetID: "u1", IsUser: true, IsWhitelist: true}))
	require.NoError(t, s.AddRow(ctx, "test", "g1", permission.Row{TargetID: "r1", IsWhitelist: false}))

	rows, err = s.Rows(ctx, "test", "g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []permission.Row{
		{TargetID: "u1", IsUser: true, IsWhitelist: true},
		{TargetID: "r1", IsWhitelist: false},
	}, rows)

	// Re-adding the same target replaces its row instead of duplicating it.
	require.NoError(t, s.AddRow(ctx, "test", "g1", permission.Row{TargetID: "u1", IsUser: true, IsWhitelist: false}))
	rows, err = s.Rows(ctx, "test", "g1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, s.RemoveRows(ctx, "test", "g1", "u1"))
	rows, err = s.Rows(ctx, "test", "g1")
	require.NoError(t, err)
	assert.Equal(t, []permission.Row{{TargetID: "r1", IsWhitelist: false}}, rows)

	// Other guilds and permission names are untouched namespaces.
	rows, err = s.Rows(ctx, "other", "g1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCancelledContextRejected(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GuildPrefix(ctx, "g1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Error(t, s.SetGuildPrefix(ctx, "g1", "?"))
}

func TestSettingsCacheReadThrough(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	sc := NewSettingsCache(s, time.Minute)

	prefix, language, err := sc.GuildSettings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)
	assert.Equal(t, "en", language)

	// A write behind the cache stays invisible until invalidated.
	require.NoError(t, s.SetGuildPrefix(ctx, "g1", "?"))
	prefix, _, err = sc.GuildSettings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)

	sc.InvalidateGuild("g1")
	prefix, _, err = sc.GuildSettings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "?", prefix)
}

func TestSettingsCacheExpiry(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	sc := NewSettingsCache(s, 30*time.Millisecond)

	_, _, err := sc.UserSettings(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, s.SetUserPrefix(ctx, "u1", "$"))

	time.Sleep(40 * time.Millisecond)
	prefix, _, err := sc.UserSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "$", prefix)
}
