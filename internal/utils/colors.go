package utils

type colors struct {
	c map[string]int
}

// Colors is the moderation log palette.
var Colors = colors{
	c: map[string]int{
		"Emerald":     0x2ecc71,
		"Carrot":      0xe67e22,
		"Belize hole": 0x2980b9,
	},
}

// Positive is used for actions that grant something (role added, staff on).
func (c colors) Positive() int {
	return c.c["Emerald"]
}

// Negative is used for actions that take something away (bans, removals).
func (c colors) Negative() int {
	return c.c["Carrot"]
}

// Neutral is used for informational entries.
func (c colors) Neutral() int {
	return c.c["Belize hole"]
}
