package storage

import (
	"context"
	"sync"
	"time"
)

// SettingsCache is a bounded TTL read-through cache over the prefix and
// language lookups, which run once per inbound message. Writers must call the
// matching Invalidate method so a change is visible immediately instead of
// after expiry.
type SettingsCache struct {
	storage *Storage
	ttl     time.Duration

	mu      sync.Mutex
	entries map[string]settingsEntry
}

type settingsEntry struct {
	prefix   string
	language string
	expires  time.Time
}

// NewSettingsCache wraps storage with a TTL cache.
func NewSettingsCache(storage *Storage, ttl time.Duration) *SettingsCache {
	return &SettingsCache{
		storage: storage,
		ttl:     ttl,
		entries: make(map[string]settingsEntry),
	}
}

// RunSweeper evicts expired entries until ctx is cancelled. Lookups already
// ignore expired entries; the sweeper only bounds memory.
func (sc *SettingsCache) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(sc.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			sc.mu.Lock()
			for key, entry := range sc.entries {
				if now.After(entry.expires) {
					delete(sc.entries, key)
				}
			}
			sc.mu.Unlock()
		}
	}
}

func (sc *SettingsCache) lookup(key string) (settingsEntry, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	entry, ok := sc.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return settingsEntry{}, false
	}
	return entry, true
}

func (sc *SettingsCache) put(key, prefix, language string) {
	sc.mu.Lock()
	sc.entries[key] = settingsEntry{prefix: prefix, language: language, expires: time.Now().Add(sc.ttl)}
	sc.mu.Unlock()
}

// GuildSettings returns the prefix and language for a guild.
func (sc *SettingsCache) GuildSettings(ctx context.Context, guildID string) (prefix, language string, err error) {
	key := guildKey(guildID)
	if entry, ok := sc.lookup(key); ok {
		return entry.prefix, entry.language, nil
	}
	prefix, err = sc.storage.GuildPrefix(ctx, guildID)
	if err != nil {
		return "", "", err
	}
	language, err = sc.storage.GuildLanguage(ctx, guildID)
	if err != nil {
		return "", "", err
	}
	sc.put(key, prefix, language)
	return prefix, language, nil
}

// UserSettings returns the DM prefix and language for a user.
func (sc *SettingsCache) UserSettings(ctx context.Context, userID string) (prefix, language string, err error) {
	key := userKey(userID)
	if entry, ok := sc.lookup(key); ok {
		return entry.prefix, entry.language, nil
	}
	prefix, err = sc.storage.UserPrefix(ctx, userID)
	if err != nil {
		return "", "", err
	}
	language, err = sc.storage.UserLanguage(ctx, userID)
	if err != nil {
		return "", "", err
	}
	sc.put(key, prefix, language)
	return prefix, language, nil
}

// InvalidateGuild drops the cached settings of a guild.
func (sc *SettingsCache) InvalidateGuild(guildID string) {
	sc.mu.Lock()
	delete(sc.entries, guildKey(guildID))
	sc.mu.Unlock()
}

// InvalidateUser drops the cached settings of a user.
func (sc *SettingsCache) InvalidateUser(userID string) {
	sc.mu.Lock()
	delete(sc.entries, userKey(userID))
	sc.mu.Unlock()
}
