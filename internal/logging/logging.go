// Package logging builds the daemon's structured logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logger type passed around the daemon. A nil *Logger is
// valid and discards everything.
type Logger = logiface.Logger[logiface.Event]

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField("time"),
		),
		stumpy.L.WithLevel(level),
	).Logger()
}

// Component returns a sub-logger tagged with the component name.
func Component(l *Logger, name string) *Logger {
	c := l.Clone()
	if c == nil {
		return nil
	}
	return c.Str("component", name).Logger()
}

// ParseLevel maps a level name from configuration to a logiface level.
func ParseLevel(s string) (logiface.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logiface.LevelTrace, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "", "info":
		return logiface.LevelInformational, nil
	case "notice":
		return logiface.LevelNotice, nil
	case "warn", "warning":
		return logiface.LevelWarning, nil
	case "err", "error":
		return logiface.LevelError, nil
	case "off", "disabled":
		return logiface.LevelDisabled, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
