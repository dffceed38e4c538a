package argparse

import (
	"fmt"
	"slices"
	"strings"
)

// ValueType is the declared type of a positional or option value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	default:
		return "string"
	}
}

// Arity is the number of tokens a positional consumes.
type Arity int

const (
	ExactlyOne Arity = iota
	OneOrMore
	ZeroOrMore
)

// Positional declares a positional argument.
type Positional struct {
	Name  string
	Help  string
	Type  ValueType
	Arity Arity
}

// Option declares a named option. Long is required, Short is an optional
// single letter.
type Option struct {
	Short   string
	Long    string
	Help    string
	Type    ValueType
	Default any
	Choices []int
}

// CommandSpec is the static grammar of one command. Specs are built once at
// startup and must not be modified after they are handed to a Registry.
type CommandSpec struct {
	Name    string
	Aliases []string
	// Prog is the program name shown in usage lines. The registry fills it
	// with the command prefix and name when left empty.
	Prog        string
	Help        string
	Positionals []Positional
	Options     []Option

	// Shared options are accepted by every subcommand.
	Shared             []Option
	Subcommands        []*CommandSpec
	SubcommandRequired bool
}

// Matches reports whether name is the command name or one of its aliases.
func (c *CommandSpec) Matches(name string) bool {
	return c.Name == name || slices.Contains(c.Aliases, name)
}

// Subcommand returns the subcommand registered under name or alias.
func (c *CommandSpec) Subcommand(name string) (*CommandSpec, bool) {
	for _, sub := range c.Subcommands {
		if sub.Matches(name) {
			return sub, true
		}
	}
	return nil, false
}

func (c *CommandSpec) prog() string {
	if c.Prog != "" {
		return c.Prog
	}
	return c.Name
}

// Validate checks the grammar for mistakes that would otherwise surface as
// panics inside the flag library.
func (c *CommandSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("command spec has no name")
	}
	if err := validateOptions(c.Name, append(slices.Clone(c.Shared), c.Options...)); err != nil {
		return err
	}

	seen := map[string]bool{}
	variadic := 0
	for _, p := range c.Positionals {
		if p.Name == "" {
			return fmt.Errorf("%s: positional without a name", c.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%s: duplicate positional %q", c.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Arity != ExactlyOne {
			variadic++
		}
	}
	if variadic > 1 {
		return fmt.Errorf("%s: at most one variadic positional is supported", c.Name)
	}

	if len(c.Subcommands) > 0 && len(c.Positionals) > 0 {
		return fmt.Errorf("%s: a command with subcommands cannot declare positionals", c.Name)
	}
	for _, sub := range c.Subcommands {
		if len(sub.Subcommands) > 0 {
			return fmt.Errorf("%s %s: nested subcommands are not supported", c.Name, sub.Name)
		}
		if err := validateOptions(c.Name+" "+sub.Name, append(slices.Clone(c.Shared), sub.Options...)); err != nil {
			return err
		}
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

func validateOptions(owner string, opts []Option) error {
	longs := map[string]bool{}
	shorts := map[string]bool{}
	for _, o := range opts {
		switch {
		case o.Long == "":
			return fmt.Errorf("%s: option without a long name", owner)
		case o.Long == "help" || o.Short == "h":
			return fmt.Errorf("%s: -h/--help is reserved", owner)
		case len(o.Short) > 1:
			return fmt.Errorf("%s: shorthand %q for --%s is more than one letter", owner, o.Short, o.Long)
		case longs[o.Long]:
			return fmt.Errorf("%s: duplicate option --%s", owner, o.Long)
		case o.Short != "" && shorts[o.Short]:
			return fmt.Errorf("%s: duplicate shorthand -%s", owner, o.Short)
		case len(o.Choices) > 0 && o.Type != TypeInt:
			return fmt.Errorf("%s: choices are only supported on int options (--%s)", owner, o.Long)
		}
		longs[o.Long] = true
		if o.Short != "" {
			shorts[o.Short] = true
		}

		switch o.Default.(type) {
		case nil:
		case string:
			if o.Type != TypeString {
				return fmt.Errorf("%s: --%s has a string default but is %s", owner, o.Long, o.Type)
			}
		case int:
			if o.Type != TypeInt {
				return fmt.Errorf("%s: --%s has an int default but is %s", owner, o.Long, o.Type)
			}
		default:
			return fmt.Errorf("%s: --%s has an unsupported default %T", owner, o.Long, o.Default)
		}
	}
	return nil
}

func (o Option) defaultString() string {
	s, _ := o.Default.(string)
	return s
}

func (o Option) defaultInt() int {
	n, _ := o.Default.(int)
	return n
}

// metavar is the placeholder shown for the option's value in usage lines.
func (o Option) metavar() string {
	if len(o.Choices) > 0 {
		parts := make([]string, len(o.Choices))
		for i, c := range o.Choices {
			parts[i] = fmt.Sprint(c)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return strings.ToUpper(strings.ReplaceAll(o.Long, "-", "_"))
}

func (o Option) flagName() string {
	if o.Short != "" {
		return "-" + o.Short
	}
	return "--" + o.Long
}

func (o Option) displayName() string {
	if o.Short != "" {
		return "-" + o.Short + "/--" + o.Long
	}
	return "--" + o.Long
}
