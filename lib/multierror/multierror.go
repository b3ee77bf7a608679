package multierror

import (
	"errors"
	"strings"
)

const Separator = "\n "

// MultiError collects a list of errors behind a single error value.
//
// The list is stored as a chain of pairs, so that errors.Is and
// errors.As keep working across all collected errors.
type MultiError struct {
	err1 error
	err2 error
}

var (
	_ error                           = &MultiError{}
	_ interface{ Unwrap() error }     = &MultiError{}
	_ interface{ Is(err error) bool } = &MultiError{}
)

// New creates a MultiError from a list of errors.
//
// Returns nil if the list is empty, so the result can be returned
// directly from functions accumulating best-effort failures.
func New(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return &MultiError{err1: errs[0]}
	}
	return &MultiError{err1: errs[0], err2: New(errs[1:])}
}

// Wrap is like New, for callers holding individual errors.
func Wrap(errs ...error) error {
	return New(errs)
}

// NewOr creates a MultiError from a list of errors, or returns the
// fallback error if the list is empty.
func NewOr(errs []error, fallback error) error {
	if len(errs) == 0 {
		return fallback
	}
	return New(errs)
}

func (multi *MultiError) Unwrap() error {
	return multi.err2
}

// As returns the first error in the chain that can be considered As
// the specified target.
func (multi MultiError) As(target interface{}) bool {
	if errors.As(multi.err1, target) {
		return true
	}
	return errors.As(multi.err2, target)
}

// Is returns true if any of the errors in the chain matches target.
func (multi MultiError) Is(target error) bool {
	if errors.Is(multi.err1, target) {
		return true
	}
	return errors.Is(multi.err2, target)
}

func (multi *MultiError) Error() string {
	var messages []string
	if multi.err1 != nil {
		messages = append(messages, multi.err1.Error())
	}
	if multi.err2 != nil {
		messages = append(messages, multi.err2.Error())
	}
	return strings.Join(messages, Separator)
}
