package staff

import (
	"fmt"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/moderation"
	"sabia/internal/platform"
	"sabia/internal/utils"
)

// StaffModule toggles the staff role on the member who runs it
type StaffModule struct {
	config   *config.Config
	platform *platform.Platform
}

func New(deps *types.Dependencies) *StaffModule {
	return &StaffModule{
		config:   deps.Config,
		platform: deps.Platform,
	}
}

func (m *StaffModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["staff"] = &types.Command{
		Spec: &argparse.CommandSpec{
			Name: "staff",
			Help: "Toggle the @staff role.",
		},
		Summary:     "toggle the staff role",
		HandlerFunc: m.handleStaff,
	}
}

func (m *StaffModule) handleStaff(ctx *types.Context) error {
	roleID := ctx.Guild.StaffRoleID
	if roleID == "" {
		return moderation.Validationf("", "staff role is not configured")
	}

	author := ctx.Author()
	result := moderation.EvaluateSelfToggle(ctx.Member.Roles, roleID)

	if err := m.platform.ApplyRoles(ctx.Guild.GuildID, author.ID, result, moderation.AuditReason(author.String(), "")); err != nil {
		return err
	}

	entry := moderation.NewLogEntry(author, result.Action, "", ctx.Timestamp(), author.ID)
	entry.Description = fmt.Sprintf("%s %s staff", utils.MentionUser(author.ID), result.Action)
	if err := m.platform.DeliverLog(ctx.Guild, entry); err != nil {
		m.config.Logger.Warnf("Failed to deliver staff log entry: %v", err)
	}

	m.config.Logger.Infof("%s %s staff", author.ID, result.Action)
	return nil
}
