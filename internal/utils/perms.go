package utils

import (
	"slices"
)

// Access is the outcome of a permission check.
type Access int

const (
	AccessDenied Access = iota
	AccessGranted
)

func (a Access) Granted() bool {
	return a == AccessGranted
}

// CheckStaffAccess grants the guild owner and any holder of one of the
// required roles.
func CheckStaffAccess(userID, ownerID string, held, required []string) Access {
	if userID != "" && userID == ownerID {
		return AccessGranted
	}
	for _, id := range held {
		if slices.Contains(required, id) {
			return AccessGranted
		}
	}
	return AccessDenied
}
