// Package permission resolves whether a caller may run a command: structural
// eligibility first (guild scope, guild owner, NSFW), then the four-tier
// named-permission algorithm over ACL rows. Precedence, strongest to weakest:
// user blacklist, user whitelist, role blacklist, role whitelist, and the
// command's default capability set as fallback when no ACL is configured.
package permission

import (
	"context"

	"templebot/internal/cache"
	"templebot/internal/command"
)

// Row is one ACL entry scoping a named permission to a user or role within a
// guild.
type Row struct {
	TargetID    string
	IsUser      bool
	IsWhitelist bool
}

// Store is the external ACL store, read-only from this package.
type Store interface {
	Rows(ctx context.Context, permissionName, guildID string) ([]Row, error)
}

// Resolver computes authorization decisions from the entity cache and the
// ACL store.
type Resolver struct {
	cache *cache.Cache
	store Store
}

// NewResolver returns a resolver over the given cache and store.
func NewResolver(c *cache.Cache, store Store) *Resolver {
	return &Resolver{cache: c, store: store}
}

// CheckExecutability runs the structural checks and, when a named permission
// is configured, the ACL algorithm. A nil return means authorized. In DMs
// there is nothing to check. A guild or member missing from the cache is a
// distinct missing-permissions condition; the resolver never blocks to fetch.
func (r *Resolver) CheckExecutability(ctx context.Context, guildID, userID, channelID string, perm *command.Permission, guildOwnerOnly, nsfw bool) error {
	if guildID == "" {
		return nil
	}
	guild, ok := r.cache.Guild(guildID)
	if !ok {
		return command.MissingPermissions("exception.notcached")
	}
	member, ok := guild.Member(userID)
	if !ok {
		return command.MissingPermissions("exception.notcached")
	}
	if guild.OwnerID == userID {
		return nil
	}
	if guildOwnerOnly {
		return command.MissingPermissions("exception.requiresguildowner")
	}
	if nsfw {
		channel, ok := guild.Channel(channelID)
		if !ok || !channel.NSFW {
			return command.NotExecutable("exception.requiresnsfwchannel")
		}
	}
	if perm == nil || perm.Name == "" {
		return nil
	}
	rows, err := r.store.Rows(ctx, perm.Name, guildID)
	if err != nil {
		return err
	}
	return check(rows, userID, member.RoleIDs(), member.EffectivePermissions(channelID), perm)
}

// check is the named-permission algorithm over already-loaded ACL rows.
func check(rows []Row, userID string, roleIDs []string, effective int64, perm *command.Permission) error {
	var (
		userWhitelist = make(map[string]bool)
		userBlacklist = make(map[string]bool)
		roleWhitelist = make(map[string]bool)
		roleBlacklist = make(map[string]bool)
	)
	for _, row := range rows {
		switch {
		case row.IsUser && row.IsWhitelist:
			userWhitelist[row.TargetID] = true
		case row.IsUser:
			userBlacklist[row.TargetID] = true
		case row.IsWhitelist:
			roleWhitelist[row.TargetID] = true
		default:
			roleBlacklist[row.TargetID] = true
		}
	}

	// The user blacklist is the strongest veto; not even administrators pass.
	if userBlacklist[userID] {
		return command.MissingPermissions("exception.missingpermissions")
	}
	allowed := effective&cache.CapabilityAdministrator != 0
	if !allowed {
		for _, id := range roleIDs {
			if roleWhitelist[id] {
				allowed = true
				break
			}
		}
	}
	roleVetoed := false
	if allowed {
		for _, id := range roleIDs {
			if roleBlacklist[id] {
				allowed = false
				roleVetoed = true
				break
			}
		}
	}
	// An explicit user whitelist entry lifts a role veto.
	if userWhitelist[userID] {
		allowed = true
	}
	// With no ACL configured at all, fall back to the command's static
	// default capability set.
	if !allowed && !roleVetoed && len(userWhitelist) == 0 && len(roleWhitelist) == 0 {
		allowed = effective&perm.Default == perm.Default
	}
	if allowed {
		return nil
	}
	return command.MissingPermissions("exception.missingpermissions")
}
