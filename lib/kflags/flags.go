package kflags

import (
	"fmt"
	"time"
)

// FlagSet is an abstraction over a golang flag or spf13 pflag flag set.
//
// Code registering flags against this interface works unchanged whether
// the binary wires flags through the standard library or through cobra,
// using the wrappers in the kcobra package.
type FlagSet interface {
	BoolVar(p *bool, name string, value bool, usage string)
	DurationVar(p *time.Duration, name string, value time.Duration, usage string)
	StringVar(p *string, name string, value string, usage string)
	IntVar(p *int, name string, value int, usage string)
}

// Consumer is any object that can take flags, and provides a common
// method to register them.
type Consumer interface {
	Register(fs FlagSet, prefix string)
}

// StatusError wraps an error to indicate the exit status to be returned
// if the error causes the program to exit.
type StatusError struct {
	error
	Code int
}

func (se *StatusError) Unwrap() error {
	return se.error
}

func NewStatusError(code int, err error) *StatusError {
	return &StatusError{error: err, Code: code}
}

func NewStatusErrorf(code int, f string, args ...interface{}) *StatusError {
	return &StatusError{error: fmt.Errorf(f, args...), Code: code}
}

// UsageError wraps an error to indicate that the problem was caused by
// incorrect flags supplied by the user, and as such the help screen
// should be printed.
type UsageError struct {
	error
}

func (ue *UsageError) Unwrap() error {
	return ue.error
}

func NewUsageError(err error) *UsageError {
	return &UsageError{error: err}
}

func NewUsageErrorf(f string, args ...interface{}) *UsageError {
	return NewUsageError(fmt.Errorf(f, args...))
}
