package config

import (
	"slices"
	"time"

	"sabia/internal/cooldown"
)

func (c *Config) GetBotToken() string {
	return c.v.GetString("bot_token")
}

func (c *Config) GetCommandPrefix() string {
	return c.v.GetString("command_prefix")
}

func (c *Config) GetGuildID() string {
	return c.v.GetString("guild_id")
}

func (c *Config) GetActivityName() string {
	return c.v.GetString("activity_name")
}

// Channels and webhooks
// -----

func (c *Config) GetManagementChannelID() string {
	return c.v.GetString("management_channel_id")
}

func (c *Config) GetModActionLogChannelID() string {
	return c.v.GetString("mod_action_log_channel_id")
}

func (c *Config) GetModerationWebhookID() string {
	return c.v.GetString("moderation_webhook_id")
}

// Roles
// -----

// GetStaffRoleID is the role toggled by the staff command.
func (c *Config) GetStaffRoleID() string {
	return c.v.GetString("staff_role_id")
}

// GetHelperRoleIDs lists the roles allowed to run moderation commands.
func (c *Config) GetHelperRoleIDs() []string {
	return c.v.GetStringSlice("helper_role_ids")
}

func (c *Config) GetProficiencyRoleIDs() []string {
	return c.v.GetStringSlice("proficiency_role_ids")
}

func (c *Config) GetDialectRoleIDs() []string {
	return c.v.GetStringSlice("dialect_role_ids")
}

func (c *Config) GetNormalRoleIDs() []string {
	return c.v.GetStringSlice("normal_role_ids")
}

// GetEnabledRoleIDs is every role the role command may toggle.
func (c *Config) GetEnabledRoleIDs() []string {
	var ids []string
	for _, group := range [][]string{c.GetProficiencyRoleIDs(), c.GetDialectRoleIDs(), c.GetNormalRoleIDs()} {
		for _, id := range group {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// GetExclusiveRoleGroups returns the configured exclusive groups. The
// proficiency roles always form a group of their own.
func (c *Config) GetExclusiveRoleGroups() map[string][]string {
	groups := c.v.GetStringMapStringSlice("exclusive_role_groups")
	if groups == nil {
		groups = make(map[string][]string)
	}
	if _, ok := groups["proficiency"]; !ok {
		if prof := c.GetProficiencyRoleIDs(); len(prof) > 0 {
			groups["proficiency"] = prof
		}
	}
	return groups
}

func (c *Config) GetTimeoutRoleID() string {
	return c.v.GetString("timeout_role_id")
}

// GetMemberRoleID is the role a member gets back when a timeout ends. Empty
// means none.
func (c *Config) GetMemberRoleID() string {
	return c.v.GetString("member_role_id")
}

// GetExemptRoleIDs lists roles whose holders can not be timed out.
func (c *Config) GetExemptRoleIDs() []string {
	return c.v.GetStringSlice("exempt_role_ids")
}

// Moderation
// -----

func (c *Config) GetBanDMMessage() string {
	return c.v.GetString("ban_dm_message")
}

// GetCooldown returns the cooldown for a command name, read from
// cooldowns.<name>.rate and cooldowns.<name>.per.
func (c *Config) GetCooldown(name string) cooldown.Policy {
	return cooldown.Policy{
		Rate: c.v.GetInt("cooldowns." + name + ".rate"),
		Per:  c.v.GetDuration("cooldowns." + name + ".per"),
	}
}

// Logging
// -----

func (c *Config) GetLogDir() string {
	return c.v.GetString("log_dir")
}

func (c *Config) GetLogRetention() time.Duration {
	d := c.v.GetDuration("log_retention")
	if d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

// GetString returns the string value for a given config key
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}
