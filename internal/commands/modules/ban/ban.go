package ban

import (
	"errors"
	"fmt"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/moderation"
	"sabia/internal/platform"
	"sabia/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// deleteHistoryChoices is the range of days of messages Discord can purge
var deleteHistoryChoices = []int{0, 1, 2, 3, 4, 5, 6, 7}

type BanModule struct {
	config   *config.Config
	platform *platform.Platform
}

func New(deps *types.Dependencies) *BanModule {
	return &BanModule{
		config:   deps.Config,
		platform: deps.Platform,
	}
}

// Command returns the ban subcommand of the user group
func (m *BanModule) Command() *types.Command {
	return &types.Command{
		Spec: &argparse.CommandSpec{
			Name:    "ban",
			Aliases: []string{"banir"},
			Help:    "ban users",
			Positionals: []argparse.Positional{
				{Name: "users", Help: "user IDs or mentions", Arity: argparse.OneOrMore},
			},
			Options: []argparse.Option{
				{
					Short:   "d",
					Long:    "delete-history",
					Help:    "days of messages to delete",
					Type:    argparse.TypeInt,
					Default: 0,
					Choices: deleteHistoryChoices,
				},
			},
		},
		Summary:     "ban users",
		Cooldown:    m.config.GetCooldown("ban"),
		HandlerFunc: m.handleBan,
	}
}

// handleBan bans every listed user in order. A failing target is reported
// on its own and the rest are still banned.
func (m *BanModule) handleBan(ctx *types.Context) error {
	reason := ctx.Args.String("reason")
	days := ctx.Args.Int("delete-history")
	author := ctx.Author()
	auditReason := moderation.AuditReason(author.String(), reason)

	outcomes := moderation.RunBatch(ctx.Args.Strings("users"), func(target string) (*discordgo.User, error) {
		user, err := m.resolveTarget(ctx, target)
		if err != nil {
			return nil, err
		}
		return user, m.executeBan(ctx, user, auditReason, reason, days)
	})

	for _, o := range moderation.Failures(outcomes) {
		m.config.Logger.Warnf("Failed to ban %s: %v", o.Target, o.Err)
		msg := utils.CodeBlock("bash", fmt.Sprintf("failed to ban (%s): %v", o.Target, o.Err))
		if err := ctx.Reply(msg); err != nil {
			m.config.Logger.Errorf("Failed to report ban failure: %v", err)
		}
	}
	return nil
}

// resolveTarget validates the ID and looks the account up. An account that
// can not be fetched is still banned by ID.
func (m *BanModule) resolveTarget(ctx *types.Context, target string) (*discordgo.User, error) {
	user, err := m.platform.ResolveUser(target)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}
	if user.ID == ctx.Author().ID {
		return nil, moderation.Validationf(target, "you cannot ban yourself")
	}
	if ctx.Session != nil && ctx.Session.State != nil && ctx.Session.State.User != nil && user.ID == ctx.Session.State.User.ID {
		return nil, moderation.Validationf(target, "I cannot ban myself")
	}
	return user, nil
}

// executeBan DMs the user, bans them and logs the ban. The DM goes first
// since it can not be delivered once the user has left the guild.
func (m *BanModule) executeBan(ctx *types.Context, user *discordgo.User, auditReason, reason string, days int) error {
	if msg := m.config.GetBanDMMessage(); msg != "" {
		if err := m.platform.SendDM(user.ID, msg); err != nil {
			m.config.Logger.Warnf("Could not DM %s before banning, they may have DMs disabled: %v", user.ID, err)
		}
	}

	if err := m.platform.CreateBan(ctx.Guild.GuildID, user.ID, auditReason, days); err != nil {
		return moderation.Delivery(user.ID, err)
	}

	entry := moderation.NewLogEntry(ctx.Author(), moderation.ActionBanned, reason, ctx.Timestamp(), user.ID)
	entry.Description = fmt.Sprintf("%s banned (%s) for “%s”", utils.MentionUser(ctx.Author().ID), displayUser(user), moderation.DisplayReason(reason))
	if err := m.platform.DeliverLog(ctx.Guild, entry); err != nil {
		m.config.Logger.Warnf("Failed to deliver ban log entry: %v", err)
	}

	m.config.Logger.Infof("%s banned %s (delete history: %d days)", ctx.Author().ID, user.ID, days)
	return nil
}

func displayUser(u *discordgo.User) string {
	if u.Username == "" {
		return u.ID
	}
	return u.String()
}
