package logger

import (
	"io"
)

// Logger is the interface used by the objectfs packages to log messages.
//
// The logrus library satisfies this interface out of the box, no glue
// needed. The golang log library can be used through DefaultLogger,
// by passing an arbitrary log function as the Printer.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})

	SetOutput(writer io.Writer)
}

// Printer is a Printf like function.
type Printer func(format string, args ...interface{})

// DefaultLogger implements the Logger interface on top of a Printer.
//
// Printer must be provided. Use log.Printf to rely on default golang
// logging, with:
//
//	logger := &DefaultLogger{Printer: log.Printf}
type DefaultLogger struct {
	Printer Printer
	Setter  func(writer io.Writer)
}

func (dl DefaultLogger) Printf(format string, args ...interface{}) {
	dl.Printer(format, args...)
}
func (dl DefaultLogger) Debugf(format string, args ...interface{}) {
	dl.Printf("[debug] "+format, args...)
}
func (dl DefaultLogger) Infof(format string, args ...interface{}) {
	dl.Printf("[info] "+format, args...)
}
func (dl DefaultLogger) Errorf(format string, args ...interface{}) {
	dl.Printf("[error] "+format, args...)
}
func (dl DefaultLogger) Warnf(format string, args ...interface{}) {
	dl.Printf("[warning] "+format, args...)
}

func (dl DefaultLogger) SetOutput(output io.Writer) {
	if dl.Setter != nil {
		dl.Setter(output)
	}
}

// Nil is a pre-defined logger that will discard all the output.
var Nil Logger = &NilLogger{}

// NilLogger is a logger that discards all messages.
//
// Prefer using logger.Nil to instantiating your own copy of &NilLogger{}.
type NilLogger struct{}

func (dl NilLogger) Debugf(format string, args ...interface{}) {
}
func (dl NilLogger) Infof(format string, args ...interface{}) {
}
func (dl NilLogger) Errorf(format string, args ...interface{}) {
}
func (dl NilLogger) Warnf(format string, args ...interface{}) {
}
func (dl NilLogger) SetOutput(writer io.Writer) {
}
