package ban

import (
	"errors"
	"testing"
	"time"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
	"sabia/internal/config"
	"sabia/internal/guildstate"
	"sabia/internal/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reasonOption = argparse.Option{Short: "r", Long: "reason", Type: argparse.TypeString}

type fixture struct {
	rec *platformtest.Recorder
	mod *BanModule
	cmd *types.Command
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := platformtest.New()
	rec.AddMember("100", "mod", "helper")
	rec.AddMember("111", "alice")
	rec.AddMember("222", "bob")

	cfg := config.NewMockConfig(map[string]interface{}{
		"ban_dm_message": "You have been banned.",
	})
	mod := New(&types.Dependencies{Config: cfg, Platform: rec.Platform()})
	return &fixture{rec: rec, mod: mod, cmd: mod.Command()}
}

func (f *fixture) run(t *testing.T, text string) error {
	t.Helper()
	group := types.NewGroup("user", nil, "", []argparse.Option{reasonOption}, f.cmd)
	parsed, err := argparse.Parse(text, group.Spec)
	require.NoError(t, err)

	author := f.rec.Users["100"]
	plat := f.mod.platform
	ctx := &types.Context{
		Message: &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:        "msg",
			ChannelID: "general",
			GuildID:   "g1",
			Author:    author,
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}},
		Member: f.rec.Members["100"],
		Args:   parsed,
		Guild: guildstate.Resolved{
			GuildID:             "g1",
			ManagementChannelID: "mgmt",
			Webhook:             &discordgo.Webhook{ID: "wh"},
		},
		Reply: func(content string) error { return plat.SendMessage("mgmt", content) },
	}
	return f.cmd.HandlerFunc(ctx)
}

func TestBanUsersInOrder(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, `ban 111 <@222> -r "spam bot" -d 1`))

	require.Len(t, f.rec.Bans, 2)
	assert.Equal(t, "111", f.rec.Bans[0].UserID)
	assert.Equal(t, "222", f.rec.Bans[1].UserID)
	for _, b := range f.rec.Bans {
		assert.Equal(t, "g1", b.GuildID)
		assert.Equal(t, "[mod] “spam bot”", b.Reason)
		assert.Equal(t, 1, b.Days)
	}

	require.Len(t, f.rec.Embeds, 2)
	assert.Equal(t, "webhook:wh", f.rec.Embeds[0].Target)
	assert.Equal(t, "<@100> banned (alice) for “spam bot”", f.rec.Embeds[0].Embed.Description)
	assert.Equal(t, "2024-05-01T12:00:00Z", f.rec.Embeds[0].Embed.Timestamp)
	assert.Empty(t, f.rec.Messages)
}

func TestBanDefaults(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ban 111"))

	require.Len(t, f.rec.Bans, 1)
	assert.Equal(t, 0, f.rec.Bans[0].Days)
	assert.Equal(t, "[mod] “No reason provided”", f.rec.Bans[0].Reason)
	assert.Equal(t, "<@100> banned (alice) for “No reason provided”", f.rec.Embeds[0].Embed.Description)
}

func TestDMSentBeforeBan(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ban 111"))

	assert.Equal(t, []string{"dm:111", "ban:111", "webhook"}, f.rec.Calls)
	require.Len(t, f.rec.DMs, 1)
	assert.Equal(t, "You have been banned.", f.rec.DMs[0].Content)
}

func TestDMFailureDoesNotStopBan(t *testing.T) {
	f := newFixture(t)
	f.rec.Fail["dm:111"] = errors.New("Cannot send messages to this user")

	require.NoError(t, f.run(t, "ban 111"))

	require.Len(t, f.rec.Bans, 1)
	assert.Empty(t, f.rec.Messages, "a failed DM is only logged")
}

func TestBanPartialFailure(t *testing.T) {
	f := newFixture(t)
	f.rec.Fail["ban:222"] = errors.New("HTTP 403 Forbidden")

	require.NoError(t, f.run(t, "ban 111 abc 222 <@111>"))

	// 111 appears twice and is banned twice; failures do not stop the batch
	require.Len(t, f.rec.Bans, 2)
	assert.Equal(t, "111", f.rec.Bans[0].UserID)
	assert.Equal(t, "111", f.rec.Bans[1].UserID)

	msgs := f.rec.MessagesTo("mgmt")
	require.Len(t, msgs, 2)
	assert.Equal(t, "```bash\nfailed to ban (abc): invalid user id \"abc\"```", msgs[0])
	assert.Equal(t, "```bash\nfailed to ban (222): HTTP 403 Forbidden```", msgs[1])
	assert.Len(t, f.rec.Embeds, 2, "only successful bans are logged")
}

func TestBanUnknownFlagDropsNoTarget(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ban -s 111 222"))

	require.Len(t, f.rec.Bans, 2)
	assert.Equal(t, "111", f.rec.Bans[0].UserID)
	assert.Equal(t, "222", f.rec.Bans[1].UserID)
	assert.Empty(t, f.rec.Messages)
}

func TestBanUnknownAccountByID(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ban 80351110224678912"))

	require.Len(t, f.rec.Bans, 1)
	assert.Equal(t, "80351110224678912", f.rec.Bans[0].UserID)
	assert.Contains(t, f.rec.Embeds[0].Embed.Description, "banned (80351110224678912)")
}

func TestBanRejectsSelf(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ban 100"))

	assert.Empty(t, f.rec.Bans)
	msgs := f.rec.MessagesTo("mgmt")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "cannot ban yourself")
}

func TestBanCommandSpec(t *testing.T) {
	f := newFixture(t)
	spec := f.cmd.Spec

	require.NoError(t, spec.Validate())
	assert.True(t, spec.Matches("banir"))
	assert.Equal(t, 6, f.cmd.Cooldown.Rate)
	assert.Equal(t, time.Hour, f.cmd.Cooldown.Per)
}
