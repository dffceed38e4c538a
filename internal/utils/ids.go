package utils

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/disgoorg/snowflake/v2"
)

var (
	userMentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMentionRe = regexp.MustCompile(`^<@&(\d+)>$`)

	ErrInvalidID = errors.New("invalid ID")
)

// ParseUserID accepts a raw snowflake or a user mention and returns the ID.
func ParseUserID(raw string) (string, error) {
	if m := userMentionRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return parseSnowflake(raw)
}

// ParseRoleID accepts a raw snowflake or a role mention and returns the ID.
func ParseRoleID(raw string) (string, error) {
	if m := roleMentionRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return parseSnowflake(raw)
}

func parseSnowflake(raw string) (string, error) {
	id, err := snowflake.Parse(raw)
	if err != nil || id == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id.String(), nil
}
