package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous")
)

// MatchMember picks the member a free-text query refers to. The query is
// compared against the legacy tag (name#1234), the username, the global
// display name and the nickname, in that order; the first rule that matches
// anyone decides. More than one member matching that rule is ambiguous.
func MatchMember(members []*discordgo.Member, query string) (*discordgo.Member, error) {
	rules := []func(m *discordgo.Member) bool{
		func(m *discordgo.Member) bool {
			return m.User.Discriminator != "" && m.User.Discriminator != "0" &&
				m.User.Username+"#"+m.User.Discriminator == query
		},
		func(m *discordgo.Member) bool { return m.User.Username == query },
		func(m *discordgo.Member) bool { return m.User.GlobalName != "" && m.User.GlobalName == query },
		func(m *discordgo.Member) bool { return m.Nick != "" && m.Nick == query },
	}

	for _, rule := range rules {
		var found []*discordgo.Member
		for _, m := range members {
			if m == nil || m.User == nil {
				continue
			}
			if rule(m) {
				found = append(found, m)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return nil, fmt.Errorf("member %q is %w (%d matches)", query, ErrAmbiguous, len(found))
		}
	}
	return nil, fmt.Errorf("member %q %w", query, ErrNotFound)
}

// MatchRole finds a role by ID, mention or exact name.
func MatchRole(roles []*discordgo.Role, query string) (*discordgo.Role, error) {
	if id, err := ParseRoleID(query); err == nil {
		for _, r := range roles {
			if r.ID == id {
				return r, nil
			}
		}
	}

	var found []*discordgo.Role
	for _, r := range roles {
		if r.Name == query {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("role %q %w", query, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("role %q is %w (%d matches)", query, ErrAmbiguous, len(found))
	}
}

// SearchQuery strips a legacy #discriminator so the name can be sent to the
// member search endpoint.
func SearchQuery(query string) string {
	if name, disc, ok := strings.Cut(query, "#"); ok && len(disc) == 4 {
		return name
	}
	return query
}
