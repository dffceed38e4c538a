package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"sabia/internal/commands"
	"sabia/internal/config"
	"sabia/internal/guildstate"
	"sabia/internal/platform"
	"sabia/internal/scheduler"
)

// Bot represents the Discord bot
type Bot struct {
	session              *discordgo.Session
	config               *config.Config
	guild                *guildstate.State
	commandModuleHandler *commands.ModuleHandler
	scheduler            *scheduler.Scheduler
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.GetBotToken())
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	guild := guildstate.New()
	handler, err := commands.NewModuleHandler(cfg, platform.Default(session), guild)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session:              session,
		config:               cfg,
		guild:                guild,
		commandModuleHandler: handler,
	}

	// Prefix commands need message content
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onGuildDelete)
	session.AddHandler(handler.HandleMessage)

	return bot, nil
}

// Start starts the bot and blocks until interrupted
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.config.Logger.Warn("error closing Discord session:", err)
		}
	}()

	b.scheduler = scheduler.NewScheduler(b.config.Logger)
	if err := b.scheduler.RegisterFunc("@hourly", "log-prune", b.config.PruneOldLogFiles); err != nil {
		b.config.Logger.Errorf("Failed to register log pruning: %v", err)
	}
	if err := b.scheduler.RegisterFunc("@every 10m", "cooldown-sweep", func() error {
		if n := b.commandModuleHandler.Cooldowns().Sweep(); n > 0 {
			b.config.Logger.Debugf("Swept %d closed cooldown windows", n)
		}
		return nil
	}); err != nil {
		b.config.Logger.Errorf("Failed to register cooldown sweep: %v", err)
	}

	b.scheduler.Start()
	defer b.scheduler.Stop()
	b.config.Logger.Infof("Scheduler started with %d jobs", b.scheduler.Jobs())

	b.config.Logger.Info("Sabia is now running. Press CTRL+C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

// onReady resolves the configured guild objects. Commands are ignored
// until this succeeds.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.config.Logger.Infof("Bot received ready signal! Logged in as: %s", r.User.String())

	if err := s.UpdateListeningStatus(b.config.GetActivityName()); err != nil {
		b.config.Logger.Warn("error updating bot status:", err)
	}

	b.resolveGuild(s)
}

// onGuildCreate re-resolves once the full guild arrives, and when it comes
// back after an outage
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.ID != b.config.GetGuildID() {
		return
	}
	b.resolveGuild(s)
}

func (b *Bot) resolveGuild(s *discordgo.Session) {
	warnings, err := b.guild.Resolve(guildstate.SessionFetcher(s), guildstate.Settings{
		GuildID:             b.config.GetGuildID(),
		StaffRoleID:         b.config.GetStaffRoleID(),
		ManagementChannelID: b.config.GetManagementChannelID(),
		LogChannelID:        b.config.GetModActionLogChannelID(),
		WebhookID:           b.config.GetModerationWebhookID(),
	})
	if err != nil {
		b.config.Logger.Errorf("Failed to resolve guild, commands stay disabled: %v", err)
		return
	}
	for _, w := range warnings {
		b.config.Logger.Warn(w)
	}
	b.config.Logger.Info("Guild resolved; commands enabled")
}

// onGuildDelete disables commands when the bot loses the guild
func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.ID != b.config.GetGuildID() {
		return
	}
	b.guild.Reset()
	if g.Unavailable {
		b.config.Logger.Warnf("Guild %s became unavailable; commands disabled until it returns", g.ID)
		return
	}
	b.config.Logger.Warnf("Removed from guild %s; commands disabled", g.ID)
}
