package utils

import "fmt"

// CodeBlock wraps text in a fenced code block.
func CodeBlock(lang, text string) string {
	return fmt.Sprintf("```%s\n%s```", lang, text)
}

func MentionUser(id string) string {
	return "<@" + id + ">"
}

func MentionRole(id string) string {
	return "<@&" + id + ">"
}
