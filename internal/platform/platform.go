// Package platform wraps the Discord calls made by command modules behind
// function fields so tests can swap them out.
package platform

import (
	"errors"
	"fmt"

	"sabia/internal/guildstate"
	"sabia/internal/moderation"
	"sabia/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const memberSearchLimit = 100

type Platform struct {
	Member         func(guildID, userID string) (*discordgo.Member, error)
	SearchMembers  func(guildID, query string, limit int) ([]*discordgo.Member, error)
	User           func(userID string) (*discordgo.User, error)
	Roles          func(guildID string) ([]*discordgo.Role, error)
	AddRole        func(guildID, userID, roleID, reason string) error
	RemoveRole     func(guildID, userID, roleID, reason string) error
	CreateBan      func(guildID, userID, reason string, days int) error
	SendDM         func(userID, message string) error
	SendMessage    func(channelID, content string) error
	SendEmbed      func(channelID string, embed *discordgo.MessageEmbed) error
	ExecuteWebhook func(webhook *discordgo.Webhook, embed *discordgo.MessageEmbed) error
	DeleteMessage  func(channelID, messageID string) error
}

// Default builds a Platform backed by s.
func Default(s *discordgo.Session) *Platform {
	return &Platform{
		Member: func(guildID, userID string) (*discordgo.Member, error) {
			if m, err := s.State.Member(guildID, userID); err == nil {
				return m, nil
			}
			return s.GuildMember(guildID, userID)
		},
		SearchMembers: func(guildID, query string, limit int) ([]*discordgo.Member, error) {
			return s.GuildMembersSearch(guildID, query, limit)
		},
		User: func(userID string) (*discordgo.User, error) {
			return s.User(userID)
		},
		Roles: func(guildID string) ([]*discordgo.Role, error) {
			if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
				return g.Roles, nil
			}
			return s.GuildRoles(guildID)
		},
		AddRole: func(guildID, userID, roleID, reason string) error {
			return s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
		},
		RemoveRole: func(guildID, userID, roleID, reason string) error {
			return s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
		},
		CreateBan: func(guildID, userID, reason string, days int) error {
			return s.GuildBanCreateWithReason(guildID, userID, reason, days)
		},
		SendDM: func(userID, message string) error {
			ch, err := s.UserChannelCreate(userID)
			if err != nil {
				return err
			}
			_, err = s.ChannelMessageSend(ch.ID, message)
			return err
		},
		SendMessage: func(channelID, content string) error {
			_, err := s.ChannelMessageSend(channelID, content)
			return err
		},
		SendEmbed: func(channelID string, embed *discordgo.MessageEmbed) error {
			_, err := s.ChannelMessageSendEmbed(channelID, embed)
			return err
		},
		ExecuteWebhook: func(webhook *discordgo.Webhook, embed *discordgo.MessageEmbed) error {
			_, err := s.WebhookExecute(webhook.ID, webhook.Token, false, &discordgo.WebhookParams{
				Embeds: []*discordgo.MessageEmbed{embed},
			})
			return err
		},
		DeleteMessage: func(channelID, messageID string) error {
			return s.ChannelMessageDelete(channelID, messageID)
		},
	}
}

// ResolveMember finds a guild member from a mention, an ID, a name, a
// legacy name#1234 tag, a global name or a nickname.
func (p *Platform) ResolveMember(guildID, query string) (*discordgo.Member, error) {
	if id, err := utils.ParseUserID(query); err == nil {
		m, err := p.Member(guildID, id)
		if err != nil {
			return nil, moderation.Validationf(query, "member %q not found", query)
		}
		return m, nil
	}

	candidates, err := p.SearchMembers(guildID, utils.SearchQuery(query), memberSearchLimit)
	if err != nil {
		return nil, moderation.Delivery(query, fmt.Errorf("member search failed: %w", err))
	}
	m, err := utils.MatchMember(candidates, query)
	if err != nil {
		return nil, &moderation.Error{Kind: moderation.KindValidation, Target: query, Err: err}
	}
	return m, nil
}

// ResolveUser looks up an account by mention or ID. The account does not
// need to be in the guild. An ID that can not be fetched yields the bare ID
// together with an error wrapping utils.ErrNotFound.
func (p *Platform) ResolveUser(query string) (*discordgo.User, error) {
	id, err := utils.ParseUserID(query)
	if err != nil {
		return nil, moderation.Validationf(query, "invalid user id %q", query)
	}
	u, err := p.User(id)
	if err != nil {
		return &discordgo.User{ID: id}, &moderation.Error{
			Kind:   moderation.KindValidation,
			Target: query,
			Err:    fmt.Errorf("user %q %w", query, utils.ErrNotFound),
		}
	}
	return u, nil
}

// ResolveRole finds a guild role by mention, ID or exact name.
func (p *Platform) ResolveRole(guildID, query string) (*discordgo.Role, error) {
	roles, err := p.Roles(guildID)
	if err != nil {
		return nil, moderation.Delivery(query, fmt.Errorf("failed to list roles: %w", err))
	}
	r, err := utils.MatchRole(roles, query)
	if err != nil {
		return nil, &moderation.Error{Kind: moderation.KindValidation, Target: query, Err: err}
	}
	return r, nil
}

// ApplyRoles applies a role delta to one member. Removals go first so an
// exclusive swap never leaves the member holding both roles. Every call is
// attempted; the errors are joined.
func (p *Platform) ApplyRoles(guildID, userID string, delta moderation.RoleActionResult, reason string) error {
	var errs []error
	for _, roleID := range delta.RolesToRemove {
		if err := p.RemoveRole(guildID, userID, roleID, reason); err != nil {
			errs = append(errs, fmt.Errorf("remove role %s: %w", roleID, err))
		}
	}
	for _, roleID := range delta.RolesToAdd {
		if err := p.AddRole(guildID, userID, roleID, reason); err != nil {
			errs = append(errs, fmt.Errorf("add role %s: %w", roleID, err))
		}
	}
	if len(errs) > 0 {
		return moderation.Delivery(userID, errors.Join(errs...))
	}
	return nil
}

// DeliverLog posts entry through the moderation webhook, or to the log
// channel when no webhook is resolved. With neither it does nothing.
func (p *Platform) DeliverLog(g guildstate.Resolved, entry *moderation.LogEntry) error {
	embed := entry.Embed()
	switch {
	case g.Webhook != nil:
		return p.ExecuteWebhook(g.Webhook, embed)
	case g.LogChannelID != "":
		return p.SendEmbed(g.LogChannelID, embed)
	}
	return nil
}
