package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templebot/internal/cache"
	"templebot/internal/command"
	"templebot/internal/dispatch"
	"templebot/internal/permission"
	"templebot/internal/storage"
)

type fakeResponder struct {
	texts  []string
	embeds []*command.Embed
}

func (r *fakeResponder) SendText(_ context.Context, _ string, content string) error {
	r.texts = append(r.texts, content)
	return nil
}

func (r *fakeResponder) SendEmbed(_ context.Context, _ string, embed *command.Embed) error {
	r.embeds = append(r.embeds, embed)
	return nil
}

func (r *fakeResponder) React(context.Context, string, string, string) error { return nil }

func (r *fakeResponder) RemoveReactions(context.Context, string, string) error { return nil }

type fakePaginator struct {
	pages []*command.Embed
}

func (p *fakePaginator) Paginate(_ context.Context, _ string, pages []*command.Embed) error {
	p.pages = pages
	return nil
}

type testEnv struct {
	deps       Deps
	dispatcher *dispatch.Dispatcher
	paginator  *fakePaginator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "store.json"), "!", "en")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	paginator := &fakePaginator{}
	deps := Deps{
		Log:       zerolog.Nop(),
		Registry:  command.NewRegistry(zerolog.Nop()),
		Storage:   store,
		Settings:  storage.NewSettingsCache(store, time.Minute),
		Paginator: paginator,
	}
	Register(deps)

	entityCache := cache.New()
	resolver := permission.NewResolver(entityCache, store)
	dispatcher := dispatch.New(zerolog.Nop(), entityCache, resolver, nil, func() string { return "bot" })
	return &testEnv{deps: deps, dispatcher: dispatcher, paginator: paginator}
}

func (env *testEnv) run(t *testing.T, name, argText string) *fakeResponder {
	t.Helper()
	cmd := env.deps.Registry.Get(name)
	require.NotNil(t, cmd)
	respond := &fakeResponder{}
	env.dispatcher.Dispatch(context.Background(), cmd, &command.Invocation{
		ChannelID: "dm",
		UserID:    "u1",
		Prefix:    "!",
		Language:  "en",
		Args:      command.Tokenize(argText),
		Respond:   respond,
	})
	return respond
}

func TestRegisterInstallsBuiltins(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"help", "commands", "prefix", "language", "lang", "info", "about"} {
		assert.NotNil(t, env.deps.Registry.Get(name), name)
	}
}

func TestHelpWithoutArgsPaginates(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "help", "")

	assert.Empty(t, respond.embeds)
	require.NotEmpty(t, env.paginator.pages)
	assert.Contains(t, env.paginator.pages[0].Description, "!help")
}

func TestHelpDetail(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "help", "prefix")

	require.Len(t, respond.embeds, 1)
	embed := respond.embeds[0]
	assert.Contains(t, embed.Title, "prefix")
	require.NotEmpty(t, embed.Fields)
}

func TestHelpDetailDescendsSubCommands(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "help", "prefix set")

	require.Len(t, respond.embeds, 1)
	assert.Contains(t, respond.embeds[0].Title, "prefix set")
}

func TestHelpUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "help", "bogus")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightRed, respond.embeds[0].Color)
	assert.Contains(t, respond.embeds[0].Description, "bogus")
}

func TestPrefixGetShowsCurrent(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "prefix", "get")

	require.Len(t, respond.embeds, 1)
	assert.Contains(t, respond.embeds[0].Description, "`!`")
}

func TestPrefixWithoutArgsShowsCurrent(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "prefix", "")

	require.Len(t, respond.embeds, 1)
	assert.Contains(t, respond.embeds[0].Description, "`!`")
}

func TestPrefixUnknownSub(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "prefix", "bogus")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightRed, respond.embeds[0].Color)
}

func TestPrefixSetPersistsForUser(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "prefix", "set ?")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightGreen, respond.embeds[0].Color)

	prefix, _, err := env.deps.Settings.UserSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "?", prefix)
}

func TestPrefixSetWithoutArgument(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "prefix", "set")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightRed, respond.embeds[0].Color)
}

func TestLanguageSetRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "language", "set zz")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightRed, respond.embeds[0].Color)
}

func TestLanguageSetAcceptsRegionalTag(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "language", "set en-US")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightGreen, respond.embeds[0].Color)

	// The regional tag is stored as its base language.
	_, language, err := env.deps.Settings.UserSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "en", language)
}

func TestLanguageSetPersistsForUser(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "language", "set en")

	require.Len(t, respond.embeds, 1)
	assert.Equal(t, command.ColorLightGreen, respond.embeds[0].Color)

	_, language, err := env.deps.Settings.UserSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "en", language)
}

func TestInfoShowsVersionFields(t *testing.T) {
	env := newTestEnv(t)
	respond := env.run(t, "info", "")

	require.Len(t, respond.embeds, 1)
	assert.Len(t, respond.embeds[0].Fields, 2)
}
