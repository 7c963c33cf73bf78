// Package logger builds the zerolog loggers used by both binaries. New
// returns a standalone logger; Init installs one as the process logger that
// Get and Component hand out.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is one of trace, debug, info, warn or error. Anything else
	// means info.
	Level  string
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry when set.
	Service string
	Caller  bool
}

var process atomic.Pointer[zerolog.Logger]

// New builds a logger from opts without touching the process logger.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init installs the process logger on first use and returns whichever
// logger is installed.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := New(opts)
	process.CompareAndSwap(nil, &l)
	return *process.Load()
}

// Get returns the process logger, or a disabled one before Init.
func Get() zerolog.Logger {
	if l := process.Load(); l != nil {
		return *l
	}
	return zerolog.Nop()
}

func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// ParseLevel accepts the zerolog level names plus "warning".
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
