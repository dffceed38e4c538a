package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spf13/viper"
)

const logFilePrefix = "sabia_"

type Config struct {
	v      *viper.Viper
	Logger *log.Logger
}

// NewConfig loads the configuration from various sources using viper
func NewConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	// A missing config file is fine, env vars and defaults still apply
	if err := v.ReadInConfig(); err != nil {
		l := log.New(os.Stderr)
		l.Warnf("error reading config file: %v\nContinuing with envs...", err)
	}

	if err := bindEnvs(v); err != nil {
		return nil, fmt.Errorf("error binding environment variables: %w", err)
	}

	logFile, err := newLogFile(v.GetString("log_dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := pruneOldLogFiles(v.GetString("log_dir"), v.GetDuration("log_retention")); err != nil {
		return nil, fmt.Errorf("failed to prune old log files: %w", err)
	}

	w := io.MultiWriter(os.Stderr, logFile)

	newCfg := &Config{
		v: v,
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Prefix:          "sabia",
		}),
	}

	if err := validateConfig(newCfg); err != nil {
		return nil, err
	}

	return newCfg, nil
}

// newLogFile generates a new log file
func newLogFile(dir string) (*os.File, error) {
	if dir == "" {
		return nil, fmt.Errorf("log directory is not set")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := logFilePrefix + time.Now().Format("20060102_150405") + ".log"
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// PruneOldLogFiles removes log files older than the configured retention.
func (c *Config) PruneOldLogFiles() error {
	return pruneOldLogFiles(c.GetLogDir(), c.GetLogRetention())
}

func pruneOldLogFiles(dir string, retention time.Duration) error {
	logFiles, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	for _, file := range logFiles {
		if file.IsDir() || !strings.HasPrefix(file.Name(), logFilePrefix) {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > retention {
			if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
				return fmt.Errorf("failed to remove old log file %s: %w", file.Name(), err)
			}
		}
	}

	return nil
}

// NewMockConfig creates a mock configuration for testing
func NewMockConfig(kv map[string]interface{}) *Config {
	v := viper.New()
	setDefaults(v)
	for k, val := range kv {
		v.Set(k, val)
	}
	return &Config{
		v:      v,
		Logger: log.New(io.Discard),
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_dir", "./logs")
	v.SetDefault("log_retention", 7*24*time.Hour)
	v.SetDefault("command_prefix", "$")
	v.SetDefault("activity_name", "The 7th Element")
	v.SetDefault("ban_dm_message", "You have been banned from the server.")

	v.SetDefault("cooldowns.ban.rate", 6)
	v.SetDefault("cooldowns.ban.per", time.Hour)
	v.SetDefault("cooldowns.role.rate", 24)
	v.SetDefault("cooldowns.role.per", time.Hour)
	v.SetDefault("cooldowns.timeout.rate", 24)
	v.SetDefault("cooldowns.timeout.per", time.Hour)
}

// bindEnvs binds environment variables to viper keys
func bindEnvs(v *viper.Viper) error {
	bindings := []struct {
		key string
		env string
	}{
		{"bot_token", "SABIA_BOT_TOKEN"},
		{"guild_id", "SABIA_GUILD_ID"},
		{"command_prefix", "SABIA_COMMAND_PREFIX"},
		{"staff_role_id", "SABIA_STAFF_ROLE_ID"},
		{"moderation_webhook_id", "SABIA_MODERATION_WEBHOOK_ID"},
		{"management_channel_id", "SABIA_MANAGEMENT_CHANNEL_ID"},
		{"mod_action_log_channel_id", "SABIA_MOD_ACTION_LOG_CHANNEL_ID"},
		{"log_dir", "SABIA_LOG_DIR"},
	}

	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return fmt.Errorf("error binding %s environment variable: %w", binding.key, err)
		}
	}
	return nil
}

// validateConfig validates that all required configuration fields are present
func validateConfig(cfg *Config) error {
	if cfg.GetBotToken() == "" {
		return fmt.Errorf("bot_token is required (set SABIA_BOT_TOKEN environment variable)")
	}

	if cfg.GetGuildID() == "" {
		return fmt.Errorf("guild_id is required (set SABIA_GUILD_ID environment variable)")
	}

	if cfg.GetStaffRoleID() == "" {
		cfg.Logger.Warn("staff_role_id is not set, the staff command will fail")
	}

	if len(cfg.GetHelperRoleIDs()) == 0 {
		cfg.Logger.Warn("helper_role_ids is empty, only the guild owner can run commands")
	}

	if cfg.GetManagementChannelID() == "" {
		cfg.Logger.Warn("management_channel_id is not set, command errors will only be logged")
	}

	if cfg.GetTimeoutRoleID() == "" {
		cfg.Logger.Warn("timeout_role_id is not set, the timeout command will fail")
	}

	return nil
}
