package help

import (
	"fmt"
	"strings"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"

	"github.com/MakeNowJust/heredoc"
)

func displayName(spec *argparse.CommandSpec) string {
	if len(spec.Aliases) == 0 {
		return spec.Name
	}
	return fmt.Sprintf("%s (%s)", spec.Name, strings.Join(spec.Aliases, ", "))
}

// commandListing renders every registered command with its aliases and
// summary, subcommands indented under their group.
func commandListing(registry *argparse.Registry, cmds map[string]*types.Command) string {
	var b strings.Builder
	b.WriteString("commands:\n")
	for _, spec := range registry.Specs() {
		cmd := cmds[spec.Name]
		fmt.Fprintf(&b, "  %-24s%s\n", displayName(spec), summary(cmd, spec))
		if cmd == nil {
			continue
		}
		for _, sub := range cmd.Subcommands {
			fmt.Fprintf(&b, "    %-22s%s\n", displayName(sub.Spec), summary(sub, sub.Spec))
		}
	}

	prefix := registry.Prefix()
	b.WriteString("\n")
	b.WriteString(heredoc.Docf(`
		type %shelp <command> for more info on a command
		or %shelp <command> <subcommand> for a subcommand
	`, prefix, prefix))
	return b.String()
}

func summary(cmd *types.Command, spec *argparse.CommandSpec) string {
	if cmd != nil && cmd.Summary != "" {
		return cmd.Summary
	}
	return spec.Help
}
