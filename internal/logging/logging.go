// Package logging builds the zerolog loggers used across the application.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a logger.
type Options struct {
	Level   string
	Console bool // human-readable output instead of JSON
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	output := w
	if opts.Console {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}
	return zerolog.New(output).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// StdErrorLogger adapts logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog. Lines are written at error level.
func StdErrorLogger(logger zerolog.Logger) *stdlog.Logger {
	return stdlog.New(errorWriter{logger}, "", 0)
}

type errorWriter struct {
	log zerolog.Logger
}

func (w errorWriter) Write(p []byte) (int, error) {
	w.log.Error().Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// OpenFile opens (or creates) a log file for appending and returns a
// JSON logger on it. The caller closes the returned file.
func OpenFile(path, level string) (zerolog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(f, Options{Level: level}), f, nil
}

// ParseLevel converts a level name to a zerolog.Level.
// Unknown names map to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// IsTerminal returns true if w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
