package timeout

import (
	"fmt"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/moderation"
	"sabia/internal/platform"
	"sabia/internal/utils"
)

// TimeoutModule flips members between the timeout role and the member role
type TimeoutModule struct {
	config   *config.Config
	platform *platform.Platform
}

func New(deps *types.Dependencies) *TimeoutModule {
	return &TimeoutModule{
		config:   deps.Config,
		platform: deps.Platform,
	}
}

// Command returns the timeout subcommand of the user group
func (m *TimeoutModule) Command() *types.Command {
	return &types.Command{
		Spec: &argparse.CommandSpec{
			Name:    "timeout",
			Aliases: []string{"castigo"},
			Help:    "toggle timeout on members",
			Positionals: []argparse.Positional{
				{Name: "users", Help: "user IDs, mentions, usernames or tags", Arity: argparse.OneOrMore},
			},
		},
		Summary:     "toggle timeout on members",
		Cooldown:    m.config.GetCooldown("timeout"),
		HandlerFunc: m.handleTimeout,
	}
}

func (m *TimeoutModule) handleTimeout(ctx *types.Context) error {
	timeoutRole := m.config.GetTimeoutRoleID()
	if timeoutRole == "" {
		return moderation.Validationf("", "timeout role is not configured")
	}
	memberRole := m.config.GetMemberRoleID()
	exempt := m.config.GetExemptRoleIDs()

	reason := ctx.Args.String("reason")
	author := ctx.Author()
	auditReason := moderation.AuditReason(author.String(), reason)
	guildID := ctx.Guild.GuildID

	outcomes := moderation.RunBatch(ctx.Args.Strings("users"), func(target string) (moderation.RoleActionResult, error) {
		member, err := m.platform.ResolveMember(guildID, target)
		if err != nil {
			return moderation.RoleActionResult{}, err
		}
		if member.User.ID == author.ID {
			return moderation.RoleActionResult{}, moderation.Validationf(target, "you cannot time yourself out")
		}

		isExempt := moderation.IsExempt(member.Roles, member.User.Bot, exempt)
		result, err := moderation.EvaluateBinaryToggle(member.Roles, timeoutRole, memberRole, isExempt)
		if err != nil {
			return result, moderation.Validationf(target, "%s is exempt from timeouts", member.User.String())
		}

		if err := m.platform.ApplyRoles(guildID, member.User.ID, result, auditReason); err != nil {
			return result, err
		}

		entry := moderation.NewLogEntry(author, result.Action, reason, ctx.Timestamp(), member.User.ID)
		entry.Description = fmt.Sprintf("%s %s timeout (%s) “%s”",
			utils.MentionUser(author.ID), result.Action, member.User.String(), moderation.DisplayReason(reason))
		if err := m.platform.DeliverLog(ctx.Guild, entry); err != nil {
			m.config.Logger.Warnf("Failed to deliver timeout log entry: %v", err)
		}

		m.config.Logger.Infof("%s %s timeout on %s", author.ID, result.Action, member.User.ID)
		return result, nil
	})

	for _, o := range moderation.Failures(outcomes) {
		m.config.Logger.Warnf("Failed to toggle timeout on %s: %v", o.Target, o.Err)
		msg := utils.CodeBlock("bash", fmt.Sprintf("failed to timeout (%s): %v", o.Target, o.Err))
		if err := ctx.Reply(msg); err != nil {
			m.config.Logger.Errorf("Failed to report timeout failure: %v", err)
		}
	}
	return nil
}
