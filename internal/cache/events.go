package cache

import (
	"github.com/bwmarrin/discordgo"
)

// BindSession registers the gateway handlers that keep the cache current.
// Guild create/update repopulates the subtree eagerly with roles and the
// bot's own membership; channels and other members fill in lazily from their
// own events (and from message authors, handled by the message pipeline so
// the member is present before command execution).
func (c *Cache) BindSession(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildCreate) {
		c.populateGuild(s, e.Guild)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildUpdate) {
		c.populateGuild(s, e.Guild)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildDelete) {
		if e.Unavailable {
			return
		}
		c.RemoveGuild(e.ID)
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.ChannelCreate) {
		c.putChannel(e.Channel)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.ChannelUpdate) {
		c.putChannel(e.Channel)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.ChannelDelete) {
		if e.GuildID != "" {
			c.RemoveChannel(e.GuildID, e.ID)
		}
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleCreate) {
		c.putRole(e.GuildID, e.Role)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleUpdate) {
		c.putRole(e.GuildID, e.Role)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
		c.RemoveRole(e.GuildID, e.RoleID)
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
		c.putMember(e.Member)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		c.putMember(e.Member)
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
		if e.User != nil {
			c.RemoveMember(e.GuildID, e.User.ID)
		}
	})
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMembersChunk) {
		for _, m := range e.Members {
			m.GuildID = e.GuildID
			c.putMember(m)
		}
	})
}

func (c *Cache) populateGuild(s *discordgo.Session, g *discordgo.Guild) {
	c.UpsertGuild(g.ID, g.OwnerID)
	for _, role := range g.Roles {
		c.putRole(g.ID, role)
	}
	for _, ch := range g.Channels {
		c.putChannel(ch)
	}
	if s.State != nil && s.State.User != nil {
		for _, m := range g.Members {
			if m.User != nil && m.User.ID == s.State.User.ID {
				m.GuildID = g.ID
				c.putMember(m)
				break
			}
		}
	}
}

func (c *Cache) putRole(guildID string, role *discordgo.Role) {
	if role == nil {
		return
	}
	c.UpsertRole(guildID, Role{
		ID:          role.ID,
		Position:    role.Position,
		Permissions: role.Permissions,
	})
}

func (c *Cache) putChannel(ch *discordgo.Channel) {
	if ch == nil || ch.GuildID == "" {
		return
	}
	overwrites := make([]Overwrite, 0, len(ch.PermissionOverwrites))
	for _, ow := range ch.PermissionOverwrites {
		overwrites = append(overwrites, Overwrite{
			TargetID: ow.ID,
			IsRole:   ow.Type == discordgo.PermissionOverwriteTypeRole,
			Allow:    ow.Allow,
			Deny:     ow.Deny,
		})
	}
	c.UpsertChannel(ch.GuildID, Channel{
		ID:         ch.ID,
		NSFW:       ch.NSFW,
		Overwrites: overwrites,
	})
}

func (c *Cache) putMember(m *discordgo.Member) {
	if m == nil || m.User == nil {
		return
	}
	c.UpsertMember(m.GuildID, m.User.ID, m.Roles)
}
