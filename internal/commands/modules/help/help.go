package help

import (
	"strings"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/moderation"
	"sabia/internal/utils"
)

// HelpModule renders command help to the management channel
type HelpModule struct {
	deps *types.Dependencies
}

// New creates a new help module. The registry is read from deps when help is
// requested, since it is built after every module has registered.
func New(deps *types.Dependencies) *HelpModule {
	return &HelpModule{deps: deps}
}

// Register adds the help command to the command map
func (m *HelpModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["help"] = &types.Command{
		Spec: &argparse.CommandSpec{
			Name: "help",
			Help: "Show help for a command.",
			Positionals: []argparse.Positional{
				{Name: "command", Help: "command and optional subcommand", Arity: argparse.ZeroOrMore},
			},
		},
		Summary:     "show help for a command",
		HandlerFunc: m.handleHelp,
	}
}

func (m *HelpModule) handleHelp(ctx *types.Context) error {
	registry := m.deps.Registry
	path := ctx.Args.Strings("command")

	if len(path) == 0 {
		return ctx.Reply(utils.CodeBlock("bash", commandListing(registry, m.deps.Commands)))
	}

	text, ok := registry.Help(path...)
	if !ok {
		return moderation.Validationf(strings.Join(path, " "), "no command called %q found", strings.Join(path, " "))
	}
	return ctx.Reply(utils.CodeBlock("bash", text))
}
