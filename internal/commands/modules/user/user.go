package user

import (
	"sabia/internal/argparse"
	"sabia/internal/commands/modules/ban"
	"sabia/internal/commands/modules/role"
	"sabia/internal/commands/modules/timeout"
	"sabia/internal/commands/types"
)

// ReasonOption is accepted by every user subcommand and ends up in the
// audit log and the moderation log.
var ReasonOption = argparse.Option{
	Short: "r",
	Long:  "reason",
	Help:  "reason recorded in the audit log",
	Type:  argparse.TypeString,
}

// UserModule groups the moderation commands that act on other members
type UserModule struct {
	ban     *ban.BanModule
	role    *role.RoleModule
	timeout *timeout.TimeoutModule
}

func New(deps *types.Dependencies) *UserModule {
	return &UserModule{
		ban:     ban.New(deps),
		role:    role.New(deps),
		timeout: timeout.New(deps),
	}
}

func (m *UserModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["user"] = types.NewGroup("user", []string{"u"}, "User commands.", []argparse.Option{ReasonOption},
		m.ban.Command(),
		m.role.Command(),
		m.timeout.Command(),
	)
}
