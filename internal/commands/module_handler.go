package commands

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"sabia/internal/argparse"
	"sabia/internal/commands/modules/help"
	"sabia/internal/commands/modules/ping"
	"sabia/internal/commands/modules/staff"
	"sabia/internal/commands/modules/user"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/cooldown"
	"sabia/internal/guildstate"
	"sabia/internal/moderation"
	"sabia/internal/platform"
	"sabia/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// ModuleHandler owns the command registry and routes prefix commands from
// guild messages to module handlers.
type ModuleHandler struct {
	commands  map[string]*types.Command
	registry  *argparse.Registry
	config    *config.Config
	deps      *types.Dependencies
	cooldowns *cooldown.Table
}

// NewModuleHandler registers every module and builds the command registry.
// The registry is read-only afterwards.
func NewModuleHandler(cfg *config.Config, plat *platform.Platform, guild *guildstate.State) (*ModuleHandler, error) {
	h := &ModuleHandler{
		commands:  make(map[string]*types.Command),
		config:    cfg,
		cooldowns: cooldown.NewTable(),
		deps: &types.Dependencies{
			Config:   cfg,
			Platform: plat,
			Guild:    guild,
		},
	}
	h.deps.Commands = h.commands

	h.registerModules()

	specs := make([]*argparse.CommandSpec, 0, len(h.commands))
	for _, c := range h.commands {
		specs = append(specs, c.Spec)
	}
	registry, err := argparse.NewRegistry(cfg.GetCommandPrefix(), specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build command registry: %w", err)
	}
	h.registry = registry
	h.deps.Registry = registry

	return h, nil
}

// registerModules registers all command modules
func (h *ModuleHandler) registerModules() {
	modules := []struct {
		name   string
		module types.CommandModule
	}{
		{"ping", ping.New()},
		{"help", help.New(h.deps)},
		{"staff", staff.New(h.deps)},
		{"user", user.New(h.deps)},
	}

	for _, m := range modules {
		m.module.Register(h.commands, h.deps)
		h.config.Logger.Debugf("Registered module %s", m.name)
	}
}

// Registry returns the command registry
func (h *ModuleHandler) Registry() *argparse.Registry {
	return h.registry
}

// Cooldowns returns the cooldown table, swept by the scheduler
func (h *ModuleHandler) Cooldowns() *cooldown.Table {
	return h.cooldowns
}

// HandleMessage routes a guild message to its command. Messages from bots,
// from other guilds, without the prefix, or arriving before the guild is
// resolved are ignored. Members without access are ignored silently.
func (h *ModuleHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !h.deps.Guild.IsReady() {
		return
	}
	g := h.deps.Guild.Snapshot()
	if m.GuildID != g.GuildID {
		return
	}

	name, rest, ok := splitCommand(m.Content, h.registry.Prefix())
	if !ok {
		return
	}
	spec, ok := h.registry.Lookup(name)
	if !ok {
		return
	}
	cmd := h.commands[spec.Name]

	member := h.invokingMember(g.GuildID, m)
	if member == nil {
		return
	}
	if access := utils.CheckStaffAccess(m.Author.ID, g.OwnerID, member.Roles, h.config.GetHelperRoleIDs()); !access.Granted() {
		h.config.Logger.Debugf("Ignoring %s from %s: missing helper role", spec.Name, m.Author.ID)
		return
	}

	reply := h.replyFunc(m, g)
	defer h.cleanup(m, g)

	parsed, err := argparse.Parse(rest, spec)
	if err != nil {
		h.report(reply, m.Author, spec.Name, err)
		return
	}

	target := cmd
	if parsed.Subcommand != "" {
		if sub, ok := cmd.Subcommand(parsed.Subcommand); ok {
			target = sub
		}
	}
	if target.HandlerFunc == nil {
		return
	}

	if retry, ok := h.cooldowns.Take(target.Spec.Name, m.Author.ID, target.Cooldown); !ok {
		h.report(reply, m.Author, parsed.Path(), moderation.Validationf("",
			"you are on cooldown, try again in %ds", int(math.Ceil(retry.Seconds()))))
		return
	}

	ctx := &types.Context{
		Session: s,
		Message: m,
		Member:  member,
		Args:    parsed,
		Guild:   g,
		Reply:   reply,
	}
	if err := target.HandlerFunc(ctx); err != nil {
		h.report(reply, m.Author, parsed.Path(), err)
	}
}

// splitCommand strips prefix and splits the command name from its
// arguments.
func splitCommand(content, prefix string) (name, rest string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	body := strings.TrimPrefix(content, prefix)
	end := strings.IndexFunc(body, unicode.IsSpace)
	if end == -1 {
		return body, "", body != ""
	}
	return body[:end], strings.TrimSpace(body[end:]), end > 0
}

func (h *ModuleHandler) invokingMember(guildID string, m *discordgo.MessageCreate) *discordgo.Member {
	if m.Member != nil {
		if m.Member.User == nil {
			m.Member.User = m.Author
		}
		return m.Member
	}
	member, err := h.deps.Platform.Member(guildID, m.Author.ID)
	if err != nil {
		h.config.Logger.Warnf("Failed to fetch member %s: %v", m.Author.ID, err)
		return nil
	}
	return member
}

// replyFunc sends to the management channel, or to the invoking channel
// when that is the management channel or none is configured.
func (h *ModuleHandler) replyFunc(m *discordgo.MessageCreate, g guildstate.Resolved) func(string) error {
	channelID := g.ManagementChannelID
	if channelID == "" {
		channelID = m.ChannelID
	}
	return func(content string) error {
		return h.deps.Platform.SendMessage(channelID, content)
	}
}

func (h *ModuleHandler) report(reply func(string) error, author *discordgo.User, path string, err error) {
	text := err.Error()

	switch moderation.KindOf(err) {
	case moderation.KindUnknown, moderation.KindDelivery:
		h.config.Logger.Errorf("Command %s by %s failed: %v", path, author.ID, err)
	default:
		h.config.Logger.Infof("Command %s by %s rejected: %s", path, author.ID, strings.TrimSpace(text))
	}

	msg := utils.MentionUser(author.ID) + "\n" + utils.CodeBlock("bash", text)
	if sendErr := reply(msg); sendErr != nil {
		h.config.Logger.Errorf("Failed to report error for %s: %v", path, sendErr)
	}
}

// cleanup deletes the invoking message unless it was sent in the
// management channel.
func (h *ModuleHandler) cleanup(m *discordgo.MessageCreate, g guildstate.Resolved) {
	if m.ChannelID == g.ManagementChannelID {
		return
	}
	if err := h.deps.Platform.DeleteMessage(m.ChannelID, m.ID); err != nil {
		h.config.Logger.Warnf("Failed to delete command message %s: %v", m.ID, err)
	}
}
