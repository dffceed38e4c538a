package argparse

import (
	"fmt"
	"sort"
)

// Registry indexes command specs by name and alias. It is built once at
// startup and only read afterwards, so it needs no locking.
type Registry struct {
	prefix string
	specs  []*CommandSpec
	byName map[string]*CommandSpec
}

// NewRegistry validates specs and indexes them. Specs without a Prog get
// prefix+name so usage lines show what the user actually types.
func NewRegistry(prefix string, specs ...*CommandSpec) (*Registry, error) {
	r := &Registry{
		prefix: prefix,
		byName: make(map[string]*CommandSpec),
	}

	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid command spec: %w", err)
		}
		if spec.Prog == "" {
			spec.Prog = prefix + spec.Name
		}
		for _, name := range append([]string{spec.Name}, spec.Aliases...) {
			if _, exists := r.byName[name]; exists {
				return nil, fmt.Errorf("command name %q registered twice", name)
			}
			r.byName[name] = spec
		}
		r.specs = append(r.specs, spec)
	}

	sort.Slice(r.specs, func(i, j int) bool { return r.specs[i].Name < r.specs[j].Name })
	return r, nil
}

// Prefix returns the command prefix the registry was built with.
func (r *Registry) Prefix() string {
	return r.prefix
}

// Lookup finds a top-level command by name or alias.
func (r *Registry) Lookup(name string) (*CommandSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// Specs returns the registered commands ordered by name.
func (r *Registry) Specs() []*CommandSpec {
	return r.specs
}

// Help renders help for a command path: a top-level name, a top-level name
// followed by a subcommand, or a bare subcommand name such as "ban".
func (r *Registry) Help(path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}

	if spec, ok := r.Lookup(path[0]); ok {
		if len(path) == 1 {
			return spec.HelpText(), true
		}
		return spec.SubcommandHelpText(path[1])
	}

	if len(path) > 1 {
		return "", false
	}
	for _, spec := range r.specs {
		if text, ok := spec.SubcommandHelpText(path[0]); ok {
			return text, true
		}
	}
	return "", false
}
