// Package platformtest provides an in-memory Platform that records every
// call, for use in command module tests.
package platformtest

import (
	"fmt"
	"slices"
	"strings"

	"sabia/internal/platform"

	"github.com/bwmarrin/discordgo"
)

type Ban struct {
	GuildID string
	UserID  string
	Reason  string
	Days    int
}

type RoleChange struct {
	UserID string
	RoleID string
	Reason string
}

type Message struct {
	ChannelID string
	Content   string
}

type Embed struct {
	// Target is the channel ID, or "webhook:<id>" for webhook deliveries.
	Target string
	Embed  *discordgo.MessageEmbed
}

// Recorder backs a Platform with fixed members, users and roles. Role
// changes are applied to the stored members so later lookups see them.
type Recorder struct {
	Members    map[string]*discordgo.Member
	Users      map[string]*discordgo.User
	GuildRoles []*discordgo.Role

	// Fail makes a call fail. Keys are "<call>:<id>", for example
	// "ban:123", "dm:123", "addrole:123", "removerole:123", "send:chan",
	// "webhook" or "delete:msg".
	Fail map[string]error

	Bans     []Ban
	Added    []RoleChange
	Removed  []RoleChange
	DMs      []Message
	Messages []Message
	Embeds   []Embed
	Deleted  []string
	// Calls lists every mutating call in order, for example "dm:123".
	Calls []string
}

func New() *Recorder {
	return &Recorder{
		Members: make(map[string]*discordgo.Member),
		Users:   make(map[string]*discordgo.User),
		Fail:    make(map[string]error),
	}
}

// AddMember registers a member and its user.
func (r *Recorder) AddMember(id, username string, roles ...string) *discordgo.Member {
	u := &discordgo.User{ID: id, Username: username, Discriminator: "0"}
	m := &discordgo.Member{User: u, Roles: roles}
	r.Members[id] = m
	r.Users[id] = u
	return m
}

func (r *Recorder) AddRole(id, name string) {
	r.GuildRoles = append(r.GuildRoles, &discordgo.Role{ID: id, Name: name})
}

func (r *Recorder) fail(key string) error {
	return r.Fail[key]
}

func (r *Recorder) record(call string) {
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) Platform() *platform.Platform {
	return &platform.Platform{
		Member: func(_, userID string) (*discordgo.Member, error) {
			if m, ok := r.Members[userID]; ok {
				return m, nil
			}
			return nil, fmt.Errorf("HTTP 404 Not Found, Unknown Member")
		},
		SearchMembers: func(_, query string, limit int) ([]*discordgo.Member, error) {
			var found []*discordgo.Member
			for _, m := range r.Members {
				if strings.HasPrefix(m.User.Username, query) ||
					strings.HasPrefix(m.User.GlobalName, query) ||
					strings.HasPrefix(m.Nick, query) {
					found = append(found, m)
				}
			}
			slices.SortFunc(found, func(a, b *discordgo.Member) int { return strings.Compare(a.User.ID, b.User.ID) })
			if len(found) > limit {
				found = found[:limit]
			}
			return found, nil
		},
		User: func(userID string) (*discordgo.User, error) {
			if u, ok := r.Users[userID]; ok {
				return u, nil
			}
			return nil, fmt.Errorf("HTTP 404 Not Found, Unknown User")
		},
		Roles: func(string) ([]*discordgo.Role, error) {
			return r.GuildRoles, nil
		},
		AddRole: func(_, userID, roleID, reason string) error {
			r.record("addrole:" + userID + ":" + roleID)
			if err := r.fail("addrole:" + userID); err != nil {
				return err
			}
			r.Added = append(r.Added, RoleChange{UserID: userID, RoleID: roleID, Reason: reason})
			if m, ok := r.Members[userID]; ok && !slices.Contains(m.Roles, roleID) {
				m.Roles = append(m.Roles, roleID)
			}
			return nil
		},
		RemoveRole: func(_, userID, roleID, reason string) error {
			r.record("removerole:" + userID + ":" + roleID)
			if err := r.fail("removerole:" + userID); err != nil {
				return err
			}
			r.Removed = append(r.Removed, RoleChange{UserID: userID, RoleID: roleID, Reason: reason})
			if m, ok := r.Members[userID]; ok {
				m.Roles = slices.DeleteFunc(m.Roles, func(id string) bool { return id == roleID })
			}
			return nil
		},
		CreateBan: func(guildID, userID, reason string, days int) error {
			r.record("ban:" + userID)
			if err := r.fail("ban:" + userID); err != nil {
				return err
			}
			r.Bans = append(r.Bans, Ban{GuildID: guildID, UserID: userID, Reason: reason, Days: days})
			return nil
		},
		SendDM: func(userID, message string) error {
			r.record("dm:" + userID)
			if err := r.fail("dm:" + userID); err != nil {
				return err
			}
			r.DMs = append(r.DMs, Message{ChannelID: userID, Content: message})
			return nil
		},
		SendMessage: func(channelID, content string) error {
			r.record("send:" + channelID)
			if err := r.fail("send:" + channelID); err != nil {
				return err
			}
			r.Messages = append(r.Messages, Message{ChannelID: channelID, Content: content})
			return nil
		},
		SendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
			r.record("embed:" + channelID)
			if err := r.fail("embed:" + channelID); err != nil {
				return err
			}
			r.Embeds = append(r.Embeds, Embed{Target: channelID, Embed: embed})
			return nil
		},
		ExecuteWebhook: func(webhook *discordgo.Webhook, embed *discordgo.MessageEmbed) error {
			r.record("webhook")
			if err := r.fail("webhook"); err != nil {
				return err
			}
			r.Embeds = append(r.Embeds, Embed{Target: "webhook:" + webhook.ID, Embed: embed})
			return nil
		},
		DeleteMessage: func(_, messageID string) error {
			r.record("delete:" + messageID)
			if err := r.fail("delete:" + messageID); err != nil {
				return err
			}
			r.Deleted = append(r.Deleted, messageID)
			return nil
		},
	}
}

// MessagesTo returns the contents sent to channelID.
func (r *Recorder) MessagesTo(channelID string) []string {
	var out []string
	for _, m := range r.Messages {
		if m.ChannelID == channelID {
			out = append(out, m.Content)
		}
	}
	return out
}
