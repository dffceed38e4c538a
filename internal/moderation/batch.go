package moderation

import "errors"

// Outcome is the result of acting on one target of a batch.
type Outcome[T any] struct {
	Target string
	Value  T
	Err    error
}

func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// RunBatch calls fn for every target in order. A failing target never stops
// the rest. Errors that are not already an *Error are treated as delivery
// failures, and every *Error carries its target.
func RunBatch[T any](targets []string, fn func(target string) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], 0, len(targets))
	for _, target := range targets {
		value, err := fn(target)
		if err != nil {
			var merr *Error
			if !errors.As(err, &merr) {
				merr = Delivery(target, err)
				err = merr
			}
			if merr.Target == "" {
				merr.Target = target
			}
		}
		outcomes = append(outcomes, Outcome[T]{Target: target, Value: value, Err: err})
	}
	return outcomes
}

// Failures returns the failed outcomes, in input order.
func Failures[T any](outcomes []Outcome[T]) []Outcome[T] {
	var failed []Outcome[T]
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
