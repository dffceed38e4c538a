package moderation

import (
	"errors"
	"fmt"

	"sabia/internal/argparse"
)

// Kind classifies a failure for reporting. None of them is fatal.
type Kind int

const (
	KindUnknown Kind = iota
	// KindParse is malformed command text; the user gets usage text back.
	KindParse
	// KindValidation is a semantically invalid target or role choice.
	KindValidation
	// KindDelivery is a failed platform call. It is not retried.
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error is a failure tied to one target of a moderation command.
type Error struct {
	Kind    Kind
	Target  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String() + " failure"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf builds a validation failure for target.
func Validationf(target, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Target: target, Message: fmt.Sprintf(format, args...)}
}

// Delivery wraps a platform error for target.
func Delivery(target string, err error) *Error {
	return &Error{Kind: KindDelivery, Target: target, Err: err}
}

// KindOf classifies any error returned by a command handler.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	var perr *argparse.ParseError
	if errors.As(err, &perr) {
		return KindParse
	}
	return KindUnknown
}
