package role

import (
	"fmt"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/moderation"
	"sabia/internal/platform"
	"sabia/internal/utils"
)

// RoleModule toggles an assignable role on a member
type RoleModule struct {
	config   *config.Config
	platform *platform.Platform
}

func New(deps *types.Dependencies) *RoleModule {
	return &RoleModule{
		config:   deps.Config,
		platform: deps.Platform,
	}
}

// Command returns the role subcommand of the user group
func (m *RoleModule) Command() *types.Command {
	return &types.Command{
		Spec: &argparse.CommandSpec{
			Name:    "role",
			Aliases: []string{"cargo"},
			Help:    "toggle a role",
			Positionals: []argparse.Positional{
				{Name: "user", Help: "user ID, mention, username or tag"},
				{Name: "role", Help: "role ID, mention or name"},
			},
		},
		Summary:     "toggle a role",
		Cooldown:    m.config.GetCooldown("role"),
		HandlerFunc: m.handleRole,
	}
}

func (m *RoleModule) handleRole(ctx *types.Context) error {
	userArg := ctx.Args.String("user")
	roleArg := ctx.Args.String("role")
	reason := ctx.Args.String("reason")
	guildID := ctx.Guild.GuildID

	member, err := m.platform.ResolveMember(guildID, userArg)
	if moderation.KindOf(err) == moderation.KindDelivery {
		return err
	}
	if err != nil {
		return moderation.Validationf(userArg, "invalid member (%s): %v", userArg, err)
	}

	role, err := m.platform.ResolveRole(guildID, roleArg)
	if moderation.KindOf(err) == moderation.KindDelivery {
		return err
	}
	if err != nil {
		return moderation.Validationf(roleArg, "invalid role (%s): %v", roleArg, err)
	}

	result, err := moderation.EvaluateAssignableToggle(
		member.Roles,
		role.ID,
		m.config.GetEnabledRoleIDs(),
		moderation.ExclusiveGroups(m.config.GetExclusiveRoleGroups()),
	)
	if err != nil {
		return moderation.Validationf(roleArg, "invalid role %s (%s)", role.Name, roleArg)
	}

	author := ctx.Author()
	if err := m.platform.ApplyRoles(guildID, member.User.ID, result, moderation.AuditReason(author.String(), reason)); err != nil {
		return err
	}

	entry := moderation.NewLogEntry(author, result.Action, reason, ctx.Timestamp(), member.User.ID)
	entry.Description = fmt.Sprintf("%s %s role (%s, %s) “%s”",
		utils.MentionUser(author.ID), result.Action, member.User.String(), role.Name, moderation.DisplayReason(reason))
	if err := m.platform.DeliverLog(ctx.Guild, entry); err != nil {
		m.config.Logger.Warnf("Failed to deliver role log entry: %v", err)
	}

	m.config.Logger.Infof("%s %s role %s on %s", author.ID, result.Action, role.ID, member.User.ID)
	return nil
}
