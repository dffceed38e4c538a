package argparse

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ParseError is returned for text that does not match a command's grammar.
// Message is empty when the user asked for help; Usage then holds the full
// help text instead of the usage line.
type ParseError struct {
	Message string
	Usage   string
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return e.Usage
	}
	return "error: " + e.Message + "\n" + e.Usage
}

// IsHelp reports whether the failure is an explicit -h/--help request.
func (e *ParseError) IsHelp() bool {
	return e.Message == ""
}

// ParsedCommand holds the arguments of one invocation.
type ParsedCommand struct {
	Command    string
	Subcommand string
	// Extras are positional tokens beyond the grammar. They are ignored.
	Extras []string

	values   map[string]any
	supplied map[string]bool
}

// Path is the command name followed by the subcommand, if any.
func (p *ParsedCommand) Path() string {
	if p.Subcommand == "" {
		return p.Command
	}
	return p.Command + " " + p.Subcommand
}

// Lookup returns the raw value stored under a positional or option name.
// Options are keyed by their long name.
func (p *ParsedCommand) Lookup(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Supplied reports whether an option was given explicitly rather than
// taking its default.
func (p *ParsedCommand) Supplied(name string) bool {
	return p.supplied[name]
}

func (p *ParsedCommand) String(name string) string {
	switch v := p.values[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func (p *ParsedCommand) Strings(name string) []string {
	switch v := p.values[name].(type) {
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

func (p *ParsedCommand) Int(name string) int {
	switch v := p.values[name].(type) {
	case int:
		return v
	case []int:
		if len(v) > 0 {
			return v[0]
		}
	}
	return 0
}

// Parse tokenises text and parses it against spec. It never prints and never
// exits; every failure comes back as a *ParseError.
func Parse(text string, spec *CommandSpec) (*ParsedCommand, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Usage: spec.Usage()}
	}
	return ParseTokens(tokens, spec)
}

// ParseTokens parses already tokenised arguments against spec.
func ParseTokens(tokens []string, spec *CommandSpec) (*ParsedCommand, error) {
	if len(spec.Subcommands) == 0 {
		return parseLeaf(tokens, spec, nil, spec.prog())
	}

	prog := spec.prog()
	if len(tokens) == 0 {
		if spec.SubcommandRequired {
			return nil, &ParseError{
				Message: "the following arguments are required: subcommand",
				Usage:   usageLine(spec, nil, prog),
			}
		}
		return &ParsedCommand{Command: spec.Name, values: map[string]any{}, supplied: map[string]bool{}}, nil
	}

	first := tokens[0]
	if first == "-h" || first == "--help" {
		return nil, &ParseError{Usage: helpText(spec, nil, prog)}
	}

	sub, ok := spec.Subcommand(first)
	if !ok {
		if !spec.SubcommandRequired {
			return &ParsedCommand{
				Command:  spec.Name,
				Extras:   tokens,
				values:   map[string]any{},
				supplied: map[string]bool{},
			}, nil
		}
		return nil, &ParseError{
			Message: fmt.Sprintf("argument subcommand: invalid choice: '%s' (choose from %s)", first, quotedNames(spec.Subcommands)),
			Usage:   usageLine(spec, nil, prog),
		}
	}

	parsed, err := parseLeaf(tokens[1:], sub, spec.Shared, prog+" "+sub.Name)
	if err != nil {
		return nil, err
	}
	parsed.Command = spec.Name
	parsed.Subcommand = sub.Name
	return parsed, nil
}

// newFlagSet builds a pflag set for the options of one command. The set is
// silenced: output is discarded and usage rendering is left to helpText.
func newFlagSet(name string, opts []Option) (*pflag.FlagSet, map[string]*string, map[string]*int) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	strs := make(map[string]*string)
	ints := make(map[string]*int)
	for _, o := range opts {
		switch o.Type {
		case TypeInt:
			ints[o.Long] = fs.IntP(o.Long, o.Short, o.defaultInt(), optionHelp(o))
		default:
			strs[o.Long] = fs.StringP(o.Long, o.Short, o.defaultString(), optionHelp(o))
		}
	}
	return fs, strs, ints
}

func parseLeaf(tokens []string, spec *CommandSpec, shared []Option, prog string) (*ParsedCommand, error) {
	opts := append(slices.Clone(shared), spec.Options...)
	fs, strs, ints := newFlagSet(prog, opts)

	fail := func(format string, args ...any) error {
		return &ParseError{Message: fmt.Sprintf(format, args...), Usage: usageLine(spec, shared, prog)}
	}

	if err := fs.Parse(dropUnknownFlags(fs, tokens)); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ParseError{Usage: helpText(spec, shared, prog)}
		}
		return nil, fail("%s", err.Error())
	}

	parsed := &ParsedCommand{
		Command:  spec.Name,
		values:   make(map[string]any, len(opts)+len(spec.Positionals)),
		supplied: make(map[string]bool),
	}

	for _, o := range opts {
		parsed.supplied[o.Long] = fs.Changed(o.Long)
		if o.Type == TypeInt {
			v := *ints[o.Long]
			if len(o.Choices) > 0 && !slices.Contains(o.Choices, v) {
				return nil, fail("argument %s: invalid choice: %d (choose from %s)", o.displayName(), v, joinInts(o.Choices))
			}
			parsed.values[o.Long] = v
			continue
		}
		parsed.values[o.Long] = *strs[o.Long]
	}

	rest := fs.Args()
	var missing []string
	for idx, p := range spec.Positionals {
		// every later positional still needs at least one token
		reserved := 0
		for _, later := range spec.Positionals[idx+1:] {
			if later.Arity != ZeroOrMore {
				reserved++
			}
		}

		var take []string
		switch p.Arity {
		case OneOrMore, ZeroOrMore:
			n := len(rest) - reserved
			if n < 0 {
				n = 0
			}
			if n == 0 && p.Arity == OneOrMore {
				missing = append(missing, p.Name)
				continue
			}
			take, rest = rest[:n], rest[n:]
		default:
			if len(rest) == 0 {
				missing = append(missing, p.Name)
				continue
			}
			take, rest = rest[:1], rest[1:]
		}

		value, err := convert(p, take)
		if err != nil {
			return nil, fail("%s", err.Error())
		}
		parsed.values[p.Name] = value
	}

	if len(missing) > 0 {
		return nil, fail("the following arguments are required: %s", strings.Join(missing, ", "))
	}

	parsed.Extras = rest
	return parsed, nil
}

// dropUnknownFlags removes flag tokens fs does not define. Only the flag
// itself goes; the token after it stays a positional. Values of known flags
// and everything after "--" pass through untouched.
func dropUnknownFlags(fs *pflag.FlagSet, tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			return append(out, tokens[i:]...)
		}
		if len(tok) < 2 || tok[0] != '-' {
			out = append(out, tok)
			continue
		}

		var flag *pflag.Flag
		inline := false
		if strings.HasPrefix(tok, "--") {
			name, _, hasValue := strings.Cut(tok[2:], "=")
			if name == "help" {
				out = append(out, tok)
				continue
			}
			flag, inline = fs.Lookup(name), hasValue
		} else {
			if tok[1] == 'h' {
				out = append(out, tok)
				continue
			}
			flag, inline = fs.ShorthandLookup(tok[1:2]), len(tok) > 2
		}
		if flag == nil {
			continue
		}

		out = append(out, tok)
		if !inline && flag.NoOptDefVal == "" && i+1 < len(tokens) {
			i++
			out = append(out, tokens[i])
		}
	}
	return out
}

func convert(p Positional, tokens []string) (any, error) {
	if p.Type == TypeInt {
		out := make([]int, 0, len(tokens))
		for _, t := range tokens {
			n, err := strconv.Atoi(t)
			if err != nil {
				return nil, fmt.Errorf("argument %s: invalid int value: '%s'", p.Name, t)
			}
			out = append(out, n)
		}
		if p.Arity == ExactlyOne {
			return out[0], nil
		}
		return out, nil
	}

	if p.Arity == ExactlyOne {
		return tokens[0], nil
	}
	return slices.Clone(tokens), nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func quotedNames(specs []*CommandSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = "'" + s.Name + "'"
	}
	return strings.Join(parts, ", ")
}
