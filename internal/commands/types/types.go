package types

import (
	"time"

	"sabia/internal/argparse"
	"sabia/internal/config"
	"sabia/internal/cooldown"
	"sabia/internal/guildstate"
	"sabia/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// Command is a prefix command with its grammar and handler. A group command
// has Subcommands instead of a HandlerFunc; the subcommand named in the
// parsed text runs.
type Command struct {
	Spec *argparse.CommandSpec
	// Summary is the one-line description shown in the help listing.
	Summary     string
	Cooldown    cooldown.Policy
	HandlerFunc func(ctx *Context) error
	Subcommands []*Command
}

// NewGroup builds a group command whose grammar dispatches on the first
// token to one of subs. Shared options are accepted by every subcommand.
func NewGroup(name string, aliases []string, summary string, shared []argparse.Option, subs ...*Command) *Command {
	spec := &argparse.CommandSpec{
		Name:               name,
		Aliases:            aliases,
		Help:               summary,
		Shared:             shared,
		SubcommandRequired: true,
	}
	for _, sub := range subs {
		spec.Subcommands = append(spec.Subcommands, sub.Spec)
	}
	return &Command{
		Spec:        spec,
		Summary:     summary,
		Subcommands: subs,
	}
}

// Subcommand returns the subcommand whose spec is named name.
func (c *Command) Subcommand(name string) (*Command, bool) {
	for _, sub := range c.Subcommands {
		if sub.Spec.Name == name {
			return sub, true
		}
	}
	return nil, false
}

// Context carries one invocation to a handler.
type Context struct {
	Session *discordgo.Session
	Message *discordgo.MessageCreate
	Member  *discordgo.Member
	Args    *argparse.ParsedCommand
	Guild   guildstate.Resolved
	// Reply sends text where command errors go: the management channel, or
	// the invoking channel when that is the management channel.
	Reply func(content string) error
}

// Author is the invoking user.
func (c *Context) Author() *discordgo.User {
	return c.Message.Author
}

// Timestamp is when the invoking message was sent.
func (c *Context) Timestamp() time.Time {
	if c.Message.Message == nil || c.Message.Timestamp.IsZero() {
		return time.Now()
	}
	return c.Message.Timestamp
}

// CommandModule represents a module that can register commands
type CommandModule interface {
	// Register adds the module's commands to the provided map, keyed by
	// command name
	Register(commands map[string]*Command, deps *Dependencies)
}

// Dependencies contains shared dependencies that command modules may need
type Dependencies struct {
	Config   *config.Config
	Platform *platform.Platform
	Guild    *guildstate.State
	// Registry is set once every module has registered.
	Registry *argparse.Registry
	// Commands is the full command map, read-only once registration is done.
	Commands map[string]*Command
}
