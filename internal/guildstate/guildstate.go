// Package guildstate holds the guild objects the bot resolves once it is
// connected. Command handling is gated on State() being Ready.
package guildstate

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

type InitState int32

const (
	Uninitialized InitState = iota
	Ready
)

func (s InitState) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Resolved is a snapshot of the configured guild objects. Optional pieces
// are left empty when they are not configured or could not be found.
type Resolved struct {
	GuildID             string
	OwnerID             string
	StaffRoleID         string
	ManagementChannelID string
	LogChannelID        string
	Webhook             *discordgo.Webhook
}

// Settings names the objects to resolve.
type Settings struct {
	GuildID             string
	StaffRoleID         string
	ManagementChannelID string
	LogChannelID        string
	WebhookID           string
}

// Fetcher is the subset of the Discord API used during resolution.
type Fetcher struct {
	Guild   func(guildID string) (*discordgo.Guild, error)
	Webhook func(webhookID string) (*discordgo.Webhook, error)
}

// SessionFetcher reads from the session state first and falls back to REST
// while the cached guild is still an unavailable stub.
func SessionFetcher(s *discordgo.Session) Fetcher {
	return Fetcher{
		Guild: func(guildID string) (*discordgo.Guild, error) {
			if g, err := s.State.Guild(guildID); err == nil && !g.Unavailable && len(g.Roles) > 0 {
				return g, nil
			}
			return s.Guild(guildID)
		},
		Webhook: func(webhookID string) (*discordgo.Webhook, error) {
			return s.Webhook(webhookID)
		},
	}
}

type State struct {
	state    atomic.Int32
	mu       sync.RWMutex
	resolved Resolved
}

func New() *State {
	return &State{}
}

func (st *State) State() InitState {
	return InitState(st.state.Load())
}

func (st *State) IsReady() bool {
	return st.State() == Ready
}

// Snapshot returns a copy of the resolved objects.
func (st *State) Snapshot() Resolved {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.resolved
}

// Init stores r and marks the state Ready.
func (st *State) Init(r Resolved) {
	st.mu.Lock()
	st.resolved = r
	st.mu.Unlock()
	st.state.Store(int32(Ready))
}

// Reset drops back to Uninitialized, used when the guild goes away.
func (st *State) Reset() {
	st.state.Store(int32(Uninitialized))
}

// Resolve looks up the guild and the configured objects in it and stores
// the result. The guild itself is required; a missing role, channel or
// webhook is returned as a warning and left empty.
func (st *State) Resolve(f Fetcher, cfg Settings) (warnings []string, err error) {
	if cfg.GuildID == "" {
		return nil, fmt.Errorf("guild id is not configured")
	}

	guild, err := f.Guild(cfg.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guild %s: %w", cfg.GuildID, err)
	}

	r := Resolved{
		GuildID: guild.ID,
		OwnerID: guild.OwnerID,
	}

	if cfg.StaffRoleID != "" {
		if hasRole(guild, cfg.StaffRoleID) {
			r.StaffRoleID = cfg.StaffRoleID
		} else {
			warnings = append(warnings, fmt.Sprintf("staff role %s not found in guild", cfg.StaffRoleID))
		}
	}

	if cfg.ManagementChannelID != "" {
		if hasChannel(guild, cfg.ManagementChannelID) {
			r.ManagementChannelID = cfg.ManagementChannelID
		} else {
			warnings = append(warnings, fmt.Sprintf("management channel %s not found in guild", cfg.ManagementChannelID))
		}
	}

	if cfg.LogChannelID != "" {
		if hasChannel(guild, cfg.LogChannelID) {
			r.LogChannelID = cfg.LogChannelID
		} else {
			warnings = append(warnings, fmt.Sprintf("log channel %s not found in guild", cfg.LogChannelID))
		}
	}

	if cfg.WebhookID != "" {
		wh, err := f.Webhook(cfg.WebhookID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("moderation webhook %s: %v", cfg.WebhookID, err))
		} else {
			r.Webhook = wh
		}
	}

	st.Init(r)
	return warnings, nil
}

func hasRole(g *discordgo.Guild, id string) bool {
	for _, r := range g.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

// hasChannel trusts the configured ID when the guild came without a channel
// list, which happens for REST lookups.
func hasChannel(g *discordgo.Guild, id string) bool {
	if len(g.Channels) == 0 {
		return true
	}
	for _, c := range g.Channels {
		if c.ID == id {
			return true
		}
	}
	return false
}
