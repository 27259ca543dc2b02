package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// sessionResolver resolves entities through the live session, preferring
// state cache and falling back to the REST API.
type sessionResolver struct {
	s       *discordgo.Session
	guildID string
}

// NewSessionResolver returns a Resolver backed by the session for one guild.
func NewSessionResolver(s *discordgo.Session, guildID string) Resolver {
	return &sessionResolver{s: s, guildID: guildID}
}

func (r *sessionResolver) User(id string) (*discordgo.User, error) {
	if id == "" {
		return nil, fmt.Errorf("empty user id")
	}
	return r.s.User(id)
}

func (r *sessionResolver) Member(id string) (*discordgo.Member, error) {
	if id == "" {
		return nil, fmt.Errorf("empty member id")
	}
	if m, err := r.s.State.Member(r.guildID, id); err == nil && m != nil {
		return m, nil
	}
	return r.s.GuildMember(r.guildID, id)
}

func (r *sessionResolver) Channel(id string) (*discordgo.Channel, error) {
	if id == "" {
		return nil, fmt.Errorf("empty channel id")
	}
	if c, err := r.s.State.Channel(id); err == nil && c != nil {
		return c, nil
	}
	return r.s.Channel(id)
}

func (r *sessionResolver) Role(id string) (*discordgo.Role, error) {
	if id == "" {
		return nil, fmt.Errorf("empty role id")
	}
	if role, err := r.s.State.Role(r.guildID, id); err == nil && role != nil {
		return role, nil
	}
	roles, err := r.s.GuildRoles(r.guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.ID == id {
			return role, nil
		}
	}
	return nil, fmt.Errorf("role %s not found", id)
}
