package ping

import (
	"fmt"

	"sabia/internal/argparse"
	"sabia/internal/commands/types"
)

// PingModule implements the CommandModule interface for the ping command
type PingModule struct{}

// New creates a new ping module
func New() *PingModule {
	return &PingModule{}
}

// Register adds the ping command to the command map
func (m *PingModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["ping"] = &types.Command{
		Spec: &argparse.CommandSpec{
			Name: "ping",
			Help: "Check if the bot is responsive.",
		},
		Summary:     "check if the bot is responsive",
		HandlerFunc: m.handlePing,
	}
}

// handlePing replies with the gateway heartbeat latency when connected
func (m *PingModule) handlePing(ctx *types.Context) error {
	msg := "🏓 Pong! Bot is online and responsive."
	if ctx.Session != nil && !ctx.Session.LastHeartbeatAck.IsZero() {
		msg = fmt.Sprintf("%s Heartbeat: %dms", msg, ctx.Session.HeartbeatLatency().Milliseconds())
	}
	return ctx.Reply(msg)
}
