// Package storage persists per-guild and per-user bot settings and the ACL
// rows of named command permissions, backed by a JSON file datastore. The
// dispatch core treats it as an opaque read/write collaborator.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"

	"templebot/internal/permission"
)

// Storage wraps the datastore with typed accessors.
type Storage struct {
	ds              *datastore.DataStore
	defaultPrefix   string
	defaultLanguage string
}

type aclEntry struct {
	TargetID    string `json:"target_id"`
	IsUser      bool   `json:"is_user"`
	IsWhitelist bool   `json:"is_whitelist"`
}

type guildRecord struct {
	Prefix      string                `json:"prefix,omitempty"`
	Language    string                `json:"language,omitempty"`
	Permissions map[string][]aclEntry `json:"permissions,omitempty"`
}

type userRecord struct {
	Prefix   string `json:"prefix,omitempty"`
	Language string `json:"language,omitempty"`
}

// New opens (or creates) the datastore file at filePath.
func New(filePath, defaultPrefix, defaultLanguage string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds, defaultPrefix: defaultPrefix, defaultLanguage: defaultLanguage}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

func guildKey(guildID string) string { return "guild:" + guildID }
func userKey(userID string) string   { return "user:" + userID }

func decode[T any](data any) (*T, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling record: %w", err)
	}
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling record: %w", err)
	}
	return &record, nil
}

func (s *Storage) guildRecord(guildID string) (*guildRecord, error) {
	data, exists := s.ds.Get(guildKey(guildID))
	if !exists {
		return &guildRecord{}, nil
	}
	return decode[guildRecord](data)
}

func (s *Storage) userRecord(userID string) (*userRecord, error) {
	data, exists := s.ds.Get(userKey(userID))
	if !exists {
		return &userRecord{}, nil
	}
	return decode[userRecord](data)
}

// Rows returns the ACL rows configured for a permission name within a guild.
// Implements permission.Store.
func (s *Storage) Rows(ctx context.Context, permissionName, guildID string) ([]permission.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	entries := record.Permissions[permissionName]
	rows := make([]permission.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, permission.Row{TargetID: e.TargetID, IsUser: e.IsUser, IsWhitelist: e.IsWhitelist})
	}
	return rows, nil
}

// AddRow appends one ACL row for a permission name within a guild, replacing
// any existing row for the same target.
func (s *Storage) AddRow(ctx context.Context, permissionName, guildID string, row permission.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	if record.Permissions == nil {
		record.Permissions = make(map[string][]aclEntry)
	}
	entries := record.Permissions[permissionName]
	kept := entries[:0]
	for _, e := range entries {
		if e.TargetID != row.TargetID || e.IsUser != row.IsUser {
			kept = append(kept, e)
		}
	}
	record.Permissions[permissionName] = append(kept, aclEntry{
		TargetID:    row.TargetID,
		IsUser:      row.IsUser,
		IsWhitelist: row.IsWhitelist,
	})
	s.ds.Add(guildKey(guildID), record)
	return nil
}

// RemoveRows removes every ACL row for the given target under a permission
// name within a guild.
func (s *Storage) RemoveRows(ctx context.Context, permissionName, guildID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	entries := record.Permissions[permissionName]
	kept := entries[:0]
	for _, e := range entries {
		if e.TargetID != targetID {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(record.Permissions, permissionName)
	} else {
		record.Permissions[permissionName] = kept
	}
	s.ds.Add(guildKey(guildID), record)
	return nil
}

// GuildPrefix returns the prefix configured for a guild, or the default.
func (s *Storage) GuildPrefix(ctx context.Context, guildID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return "", err
	}
	if record.Prefix == "" {
		return s.defaultPrefix, nil
	}
	return record.Prefix, nil
}

// GuildLanguage returns the language configured for a guild, or the default.
func (s *Storage) GuildLanguage(ctx context.Context, guildID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return "", err
	}
	if record.Language == "" {
		return s.defaultLanguage, nil
	}
	return record.Language, nil
}

// SetGuildPrefix stores the prefix for a guild.
func (s *Storage) SetGuildPrefix(ctx context.Context, guildID, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.Prefix = prefix
	s.ds.Add(guildKey(guildID), record)
	return nil
}

// SetGuildLanguage stores the language for a guild.
func (s *Storage) SetGuildLanguage(ctx context.Context, guildID, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.Language = language
	s.ds.Add(guildKey(guildID), record)
	return nil
}

// UserPrefix returns the prefix configured for a user's DMs, or the default.
func (s *Storage) UserPrefix(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record, err := s.userRecord(userID)
	if err != nil {
		return "", err
	}
	if record.Prefix == "" {
		return s.defaultPrefix, nil
	}
	return record.Prefix, nil
}

// UserLanguage returns the language configured for a user's DMs, or the
// default.
func (s *Storage) UserLanguage(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record, err := s.userRecord(userID)
	if err != nil {
		return "", err
	}
	if record.Language == "" {
		return s.defaultLanguage, nil
	}
	return record.Language, nil
}

// SetUserPrefix stores the DM prefix for a user.
func (s *Storage) SetUserPrefix(ctx context.Context, userID, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.userRecord(userID)
	if err != nil {
		return err
	}
	record.Prefix = prefix
	s.ds.Add(userKey(userID), record)
	return nil
}

// SetUserLanguage stores the DM language for a user.
func (s *Storage) SetUserLanguage(ctx context.Context, userID, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.userRecord(userID)
	if err != nil {
		return err
	}
	record.Language = language
	s.ds.Add(userKey(userID), record)
	return nil
}
