package argparse

import (
	"errors"

	shellquote "github.com/kballard/go-shellquote"
)

// Tokenize splits command text into words using shell quoting rules: single
// and double quotes group words and a backslash escapes the next character.
// Unlike a shell, '#' has no special meaning, so "#general" stays a word.
func Tokenize(text string) ([]string, error) {
	words, err := shellquote.Split(text)
	if err != nil {
		switch {
		case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
			errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
			return nil, errors.New("no closing quotation")
		case errors.Is(err, shellquote.UnterminatedEscapeError):
			return nil, errors.New("no escaped character")
		}
		return nil, err
	}
	return words, nil
}
