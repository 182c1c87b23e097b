// Package cache mirrors guild, channel, role, and member state from the
// gateway event feed so that effective capabilities can be computed without a
// network round trip. The feed is assumed to be serialized per guild by the
// gateway client; each upsert or remove is atomic for the single entity it
// touches and never transactional across several.
package cache

import (
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Capability bits reuse the transport's permission constants.
const (
	CapabilityAll           = int64(discordgo.PermissionAll)
	CapabilityAdministrator = int64(discordgo.PermissionAdministrator)
)

// Role is a cached guild role.
type Role struct {
	ID          string
	GuildID     string
	Position    int
	Permissions int64
}

// Overwrite is a channel-scoped allow/deny capability delta targeting a role
// or a member.
type Overwrite struct {
	TargetID string
	IsRole   bool
	Allow    int64
	Deny     int64
}

// Channel is a cached guild channel.
type Channel struct {
	ID         string
	NSFW       bool
	Overwrites []Overwrite
}

// Member is a cached guild member. A member belongs to exactly one guild; the
// back-reference is set on insertion and never independently mutated.
type Member struct {
	ID      string
	roleIDs map[string]struct{}
	guild   *Guild
}

// Guild is the cached subtree for one guild.
type Guild struct {
	ID      string
	OwnerID string

	mu       sync.RWMutex
	roles    map[string]*Role
	channels map[string]*Channel
	members  map[string]*Member
}

// Cache holds every mirrored guild.
type Cache struct {
	mu     sync.RWMutex
	guilds map[string]*Guild
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{guilds: make(map[string]*Guild)}
}

// Guild returns the cached guild, if present.
func (c *Cache) Guild(guildID string) (*Guild, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.guilds[guildID]
	return g, ok
}

// UpsertGuild replaces the cached subtree for guildID with a fresh one.
// Roles and the bot's own membership are populated eagerly by the caller
// right after; channels and members fill lazily as later observed.
func (c *Cache) UpsertGuild(guildID, ownerID string) *Guild {
	g := &Guild{
		ID:       guildID,
		OwnerID:  ownerID,
		roles:    make(map[string]*Role),
		channels: make(map[string]*Channel),
		members:  make(map[string]*Member),
	}
	c.mu.Lock()
	c.guilds[guildID] = g
	c.mu.Unlock()
	return g
}

// RemoveGuild evicts the whole guild subtree.
func (c *Cache) RemoveGuild(guildID string) {
	c.mu.Lock()
	delete(c.guilds, guildID)
	c.mu.Unlock()
}

// UpsertRole replaces the role by id. No-op when the guild is not cached.
func (c *Cache) UpsertRole(guildID string, role Role) {
	if g, ok := c.Guild(guildID); ok {
		role.GuildID = guildID
		g.mu.Lock()
		g.roles[role.ID] = &role
		g.mu.Unlock()
	}
}

// RemoveRole removes the role by id. No-op when the guild is not cached.
func (c *Cache) RemoveRole(guildID, roleID string) {
	if g, ok := c.Guild(guildID); ok {
		g.mu.Lock()
		delete(g.roles, roleID)
		g.mu.Unlock()
	}
}

// UpsertChannel replaces the channel by id. No-op when the guild is not cached.
func (c *Cache) UpsertChannel(guildID string, channel Channel) {
	if g, ok := c.Guild(guildID); ok {
		g.mu.Lock()
		g.channels[channel.ID] = &channel
		g.mu.Unlock()
	}
}

// RemoveChannel removes the channel by id. No-op when the guild is not cached.
func (c *Cache) RemoveChannel(guildID, channelID string) {
	if g, ok := c.Guild(guildID); ok {
		g.mu.Lock()
		delete(g.channels, channelID)
		g.mu.Unlock()
	}
}

// UpsertMember replaces the member by id, binding it to its guild. No-op when
// the guild is not cached.
func (c *Cache) UpsertMember(guildID, userID string, roleIDs []string) {
	g, ok := c.Guild(guildID)
	if !ok {
		return
	}
	m := &Member{ID: userID, roleIDs: make(map[string]struct{}, len(roleIDs)), guild: g}
	for _, id := range roleIDs {
		m.roleIDs[id] = struct{}{}
	}
	g.mu.Lock()
	g.members[userID] = m
	g.mu.Unlock()
}

// RemoveMember removes the member by id. No-op when the guild is not cached.
func (c *Cache) RemoveMember(guildID, userID string) {
	if g, ok := c.Guild(guildID); ok {
		g.mu.Lock()
		delete(g.members, userID)
		g.mu.Unlock()
	}
}

// Role returns the cached role, if present.
func (g *Guild) Role(roleID string) (*Role, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.roles[roleID]
	return r, ok
}

// Channel returns the cached channel, if present.
func (g *Guild) Channel(channelID string) (*Channel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ch, ok := g.channels[channelID]
	return ch, ok
}

// Member returns the cached member, if present.
func (g *Guild) Member(userID string) (*Member, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.members[userID]
	return m, ok
}

// RolesOrdered returns every role ordered by position ascending, ties broken
// by id ascending.
func (g *Guild) RolesOrdered() []*Role {
	g.mu.RLock()
	list := make([]*Role, 0, len(g.roles))
	for _, r := range g.roles {
		list = append(list, r)
	}
	g.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return idLess(list[i].ID, list[j].ID)
	})
	return list
}

// idLess orders snowflake-like decimal ids numerically.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Guild returns the owning guild.
func (m *Member) Guild() *Guild { return m.guild }

// Roles returns the member's roles in guild order: the assigned ones plus the
// implicit everyone role, whose id equals the guild id.
func (m *Member) Roles() []*Role {
	var out []*Role
	for _, r := range m.guild.RolesOrdered() {
		if r.ID == m.guild.ID || m.hasRole(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// RoleIDs returns the ids of the member's roles, everyone role included.
func (m *Member) RoleIDs() []string {
	roles := m.Roles()
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.ID)
	}
	return out
}

func (m *Member) hasRole(roleID string) bool {
	_, ok := m.roleIDs[roleID]
	return ok
}

// BasePermissions is the union of the capability sets of the member's roles,
// everyone role included. The guild owner and administrators hold the full
// set.
func (m *Member) BasePermissions() int64 {
	if m.guild.OwnerID == m.ID {
		return CapabilityAll
	}
	var perms int64
	for _, r := range m.Roles() {
		perms |= r.Permissions
	}
	if perms&CapabilityAdministrator != 0 {
		return CapabilityAll
	}
	return perms
}

// EffectivePermissions resolves the member's capability set in a channel.
// The owner and administrators get the full set and channel overwrites never
// apply to them. Otherwise role-targeted overwrites apply in ascending role
// position order, deny then allow per overwrite, and a member-targeted
// overwrite applies last. An unknown channel yields the base set.
func (m *Member) EffectivePermissions(channelID string) int64 {
	if m.guild.OwnerID == m.ID {
		return CapabilityAll
	}
	perms := m.BasePermissions()
	if perms&CapabilityAdministrator != 0 {
		return CapabilityAll
	}
	channel, ok := m.guild.Channel(channelID)
	if !ok {
		return perms
	}

	rolePos := make(map[string]int)
	for i, id := range m.RoleIDs() {
		rolePos[id] = i
	}
	var roleOverwrites []Overwrite
	for _, ow := range channel.Overwrites {
		if ow.IsRole {
			if _, mine := rolePos[ow.TargetID]; mine {
				roleOverwrites = append(roleOverwrites, ow)
			}
		}
	}
	sort.SliceStable(roleOverwrites, func(i, j int) bool {
		return rolePos[roleOverwrites[i].TargetID] < rolePos[roleOverwrites[j].TargetID]
	})
	for _, ow := range roleOverwrites {
		perms = (perms &^ ow.Deny) | ow.Allow
	}
	for _, ow := range channel.Overwrites {
		if !ow.IsRole && ow.TargetID == m.ID {
			perms = (perms &^ ow.Deny) | ow.Allow
			break
		}
	}
	return perms
}
