package moderation

import (
	"fmt"
	"time"

	"sabia/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const noReason = "No reason provided"

// Severity picks the colour of a log entry.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityPositive
	SeverityNegative
)

// SeverityFor maps an action to its log colour class.
func SeverityFor(a Action) Severity {
	switch a {
	case ActionAdded, ActionEnabled:
		return SeverityPositive
	case ActionRemoved, ActionDisabled, ActionBanned:
		return SeverityNegative
	default:
		return SeverityNeutral
	}
}

func (s Severity) Color() int {
	switch s {
	case SeverityPositive:
		return utils.Colors.Positive()
	case SeverityNegative:
		return utils.Colors.Negative()
	default:
		return utils.Colors.Neutral()
	}
}

// LogEntry describes one completed moderation action. It is delivered to the
// moderation log and never stored.
type LogEntry struct {
	ActorID        string
	ActorName      string
	ActorAvatarURL string
	TargetIDs      []string
	Action         Action
	Reason         string
	Description    string
	Timestamp      time.Time
	Severity       Severity
}

// NewLogEntry starts an entry for an action taken by actor at ts.
func NewLogEntry(actor *discordgo.User, action Action, reason string, ts time.Time, targets ...string) *LogEntry {
	return &LogEntry{
		ActorID:        actor.ID,
		ActorName:      actor.String(),
		ActorAvatarURL: actor.AvatarURL(""),
		TargetIDs:      targets,
		Action:         action,
		Reason:         reason,
		Timestamp:      ts,
		Severity:       SeverityFor(action),
	}
}

// Embed renders the entry for the log webhook.
func (e *LogEntry) Embed() *discordgo.MessageEmbed {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &discordgo.MessageEmbed{
		Description: e.Description,
		Color:       e.Severity.Color(),
		Timestamp:   ts.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    e.ActorName,
			IconURL: e.ActorAvatarURL,
		},
	}
}

// DisplayReason returns the reason as shown to humans.
func DisplayReason(reason string) string {
	if reason == "" {
		return noReason
	}
	return reason
}

// AuditReason formats the reason attached to Discord audit log entries.
func AuditReason(actorName, reason string) string {
	return fmt.Sprintf("[%s] “%s”", actorName, DisplayReason(reason))
}
