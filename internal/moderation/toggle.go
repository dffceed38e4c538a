// Package moderation computes role changes for moderation commands. Nothing
// here talks to Discord; callers apply the returned deltas.
package moderation

import (
	"fmt"
	"slices"

	"sabia/internal/utils"
)

// Action describes what a moderation command did.
type Action string

const (
	ActionAdded    Action = "added"
	ActionRemoved  Action = "removed"
	ActionEnabled  Action = "enabled"
	ActionDisabled Action = "disabled"
	// ActionBanned only appears in log entries, never in a RoleActionResult.
	ActionBanned Action = "banned"
)

// RoleActionResult is the role delta for one target.
type RoleActionResult struct {
	Action        Action
	RolesToAdd    []string
	RolesToRemove []string
	Description   string
}

// ExclusiveGroups maps a group name to role IDs of which a member may hold at
// most one.
type ExclusiveGroups map[string][]string

func describe(action Action, roleID string) string {
	return fmt.Sprintf("%s %s", action, utils.MentionRole(roleID))
}

// EvaluateSelfToggle flips toggleRole on the actor: a held role is removed,
// a missing one is added.
func EvaluateSelfToggle(held []string, toggleRole string) RoleActionResult {
	if slices.Contains(held, toggleRole) {
		return RoleActionResult{
			Action:        ActionDisabled,
			RolesToRemove: []string{toggleRole},
			Description:   describe(ActionDisabled, toggleRole),
		}
	}
	return RoleActionResult{
		Action:      ActionEnabled,
		RolesToAdd:  []string{toggleRole},
		Description: describe(ActionEnabled, toggleRole),
	}
}

// EvaluateAssignableToggle flips requested on a target. The role must be in
// allowed. Adding a member of an exclusive group also removes every other
// group member the target holds.
func EvaluateAssignableToggle(held []string, requested string, allowed []string, groups ExclusiveGroups) (RoleActionResult, error) {
	if !slices.Contains(allowed, requested) {
		return RoleActionResult{}, Validationf(requested, "role %s is not assignable", requested)
	}

	if slices.Contains(held, requested) {
		return RoleActionResult{
			Action:        ActionRemoved,
			RolesToRemove: []string{requested},
			Description:   describe(ActionRemoved, requested),
		}, nil
	}

	rivals := make(map[string]bool)
	for _, members := range groups {
		if !slices.Contains(members, requested) {
			continue
		}
		for _, id := range members {
			if id != requested {
				rivals[id] = true
			}
		}
	}

	result := RoleActionResult{
		Action:      ActionAdded,
		RolesToAdd:  []string{requested},
		Description: describe(ActionAdded, requested),
	}
	for _, id := range held {
		if rivals[id] && !slices.Contains(result.RolesToRemove, id) {
			result.RolesToRemove = append(result.RolesToRemove, id)
		}
	}
	return result, nil
}

// EvaluateBinaryToggle flips a target between two marker roles. Holding
// active means the state is on and gets turned off. Exempt targets are
// rejected without evaluation.
func EvaluateBinaryToggle(held []string, active, def string, exempt bool) (RoleActionResult, error) {
	if exempt {
		return RoleActionResult{}, Validationf("", "target is exempt")
	}

	if slices.Contains(held, active) {
		result := RoleActionResult{
			Action:        ActionDisabled,
			RolesToRemove: []string{active},
			Description:   describe(ActionDisabled, active),
		}
		if def != "" {
			result.RolesToAdd = []string{def}
		}
		return result, nil
	}

	result := RoleActionResult{
		Action:      ActionEnabled,
		RolesToAdd:  []string{active},
		Description: describe(ActionEnabled, active),
	}
	if def != "" {
		result.RolesToRemove = []string{def}
	}
	return result, nil
}

// IsExempt reports whether a target may not be moderated: service accounts
// and holders of any exempt role.
func IsExempt(held []string, isBot bool, exemptRoles []string) bool {
	if isBot {
		return true
	}
	for _, id := range held {
		if slices.Contains(exemptRoles, id) {
			return true
		}
	}
	return false
}
