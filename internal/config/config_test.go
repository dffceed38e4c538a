package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sabia/internal/cooldown"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewMockConfig(nil)

	assert.Equal(t, "$", cfg.GetCommandPrefix())
	assert.Equal(t, "The 7th Element", cfg.GetActivityName())
	assert.Equal(t, "./logs", cfg.GetLogDir())
	assert.Equal(t, 7*24*time.Hour, cfg.GetLogRetention())
	assert.Equal(t, cooldown.Policy{Rate: 6, Per: time.Hour}, cfg.GetCooldown("ban"))
	assert.Equal(t, cooldown.Policy{Rate: 24, Per: time.Hour}, cfg.GetCooldown("role"))
	assert.Equal(t, cooldown.Policy{Rate: 24, Per: time.Hour}, cfg.GetCooldown("timeout"))
	assert.False(t, cfg.GetCooldown("ping").Enabled())
}

func TestCooldownOverride(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{
		"cooldowns.ban.rate": 2,
		"cooldowns.ban.per":  "10m",
	})
	assert.Equal(t, cooldown.Policy{Rate: 2, Per: 10 * time.Minute}, cfg.GetCooldown("ban"))
}

func TestEnabledRoles(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{
		"proficiency_role_ids": []string{"p1", "p2"},
		"dialect_role_ids":     []string{"d1"},
		"normal_role_ids":      []string{"n1", "p1"},
	})

	assert.Equal(t, []string{"p1", "p2", "d1", "n1"}, cfg.GetEnabledRoleIDs())
	assert.Equal(t, map[string][]string{"proficiency": {"p1", "p2"}}, cfg.GetExclusiveRoleGroups())
}

func TestExclusiveGroupsFromConfig(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{
		"proficiency_role_ids": []string{"p1", "p2"},
		"exclusive_role_groups": map[string]interface{}{
			"dialect": []string{"d1", "d2"},
		},
	})

	groups := cfg.GetExclusiveRoleGroups()
	assert.Equal(t, []string{"d1", "d2"}, groups["dialect"])
	assert.Equal(t, []string{"p1", "p2"}, groups["proficiency"])
}

func TestValidateConfig(t *testing.T) {
	err := validateConfig(NewMockConfig(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot_token")

	err = validateConfig(NewMockConfig(map[string]interface{}{"bot_token": "tok"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guild_id")

	err = validateConfig(NewMockConfig(map[string]interface{}{"bot_token": "tok", "guild_id": "1"}))
	require.NoError(t, err)
}

func TestPruneOldLogFiles(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "sabia_20200101_000000.log")
	fresh := filepath.Join(dir, "sabia_now.log")
	other := filepath.Join(dir, "notes.txt")
	for _, f := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	cfg := NewMockConfig(map[string]interface{}{"log_dir": dir})
	require.NoError(t, cfg.PruneOldLogFiles())

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other, "only our own log files are pruned")
}

func TestNewLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := newLogFile(dir)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, dir, filepath.Dir(f.Name()))

	_, err = newLogFile("")
	require.Error(t, err)
}
