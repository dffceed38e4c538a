package argparse

import (
	"fmt"
	"slices"
	"strings"
)

const helpColumn = 22

func optionHelp(o Option) string {
	if len(o.Choices) > 0 {
		return strings.TrimSpace(fmt.Sprintf("%s (choices: %s)", o.Help, joinInts(o.Choices)))
	}
	return o.Help
}

// Usage renders the one-line usage of the command.
func (c *CommandSpec) Usage() string {
	return usageLine(c, nil, c.prog())
}

// HelpText renders the full help of the command.
func (c *CommandSpec) HelpText() string {
	return helpText(c, nil, c.prog())
}

// SubcommandHelpText renders the help of a subcommand, including the options
// it inherits from c.
func (c *CommandSpec) SubcommandHelpText(name string) (string, bool) {
	sub, ok := c.Subcommand(name)
	if !ok {
		return "", false
	}
	return helpText(sub, c.Shared, c.prog()+" "+sub.Name), true
}

func usageLine(spec *CommandSpec, shared []Option, prog string) string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(prog)
	b.WriteString(" [-h]")

	if len(spec.Subcommands) > 0 {
		fmt.Fprintf(&b, " %s ...", subcommandChoices(spec))
		return b.String() + "\n"
	}

	for _, o := range append(slices.Clone(shared), spec.Options...) {
		fmt.Fprintf(&b, " [%s %s]", o.flagName(), o.metavar())
	}
	for _, p := range spec.Positionals {
		switch p.Arity {
		case OneOrMore:
			fmt.Fprintf(&b, " %s [%s ...]", p.Name, p.Name)
		case ZeroOrMore:
			fmt.Fprintf(&b, " [%s ...]", p.Name)
		default:
			fmt.Fprintf(&b, " %s", p.Name)
		}
	}
	return b.String() + "\n"
}

func helpText(spec *CommandSpec, shared []Option, prog string) string {
	var b strings.Builder
	b.WriteString(usageLine(spec, shared, prog))

	if spec.Help != "" {
		b.WriteString("\n")
		b.WriteString(spec.Help)
		b.WriteString("\n")
	}

	if len(spec.Subcommands) > 0 {
		b.WriteString("\nsubcommands:\n")
		writeRow(&b, "  "+subcommandChoices(spec), "subcommand name")
		for _, sub := range spec.Subcommands {
			name := sub.Name
			if len(sub.Aliases) > 0 {
				name += " (" + strings.Join(sub.Aliases, ", ") + ")"
			}
			writeRow(&b, "    "+name, sub.Help)
		}
	}

	if len(spec.Positionals) > 0 {
		b.WriteString("\npositional arguments:\n")
		for _, p := range spec.Positionals {
			writeRow(&b, "  "+p.Name, p.Help)
		}
	}

	b.WriteString("\noptions:\n")
	writeRow(&b, "  -h, --help", "show this help message")
	opts := append(slices.Clone(shared), spec.Options...)
	if len(spec.Subcommands) > 0 {
		opts = nil
	}
	if len(opts) > 0 {
		fs, _, _ := newFlagSet(prog, opts)
		b.WriteString(fs.FlagUsagesWrapped(0))
	}
	return b.String()
}

func writeRow(b *strings.Builder, left, right string) {
	if right == "" {
		b.WriteString(left + "\n")
		return
	}
	if len(left) >= helpColumn {
		b.WriteString(left + "\n" + strings.Repeat(" ", helpColumn) + right + "\n")
		return
	}
	fmt.Fprintf(b, "%-*s%s\n", helpColumn, left, right)
}

func subcommandChoices(spec *CommandSpec) string {
	names := make([]string, len(spec.Subcommands))
	for i, sub := range spec.Subcommands {
		names[i] = sub.Name
	}
	return "{" + strings.Join(names, ",") + "}"
}
