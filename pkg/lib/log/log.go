// Package log provides the logging interface for the appstore SDK.
//
// The SDK accepts any implementation of [Logger]. Use [Noop] to disable
// logging (this is the default when no logger is configured), or [NewPrintf]
// to route the logs to a printf style function like the standard log.Printf.
package log

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/slok/appstore/internal/log"
)

// Logger is the interface that loggers must implement for the SDK.
type Logger = log.Logger

// Kv is a helper type for structured logging key-value pairs.
type Kv = log.Kv

// Noop is a logger that discards all log output. This is the default logger
// when none is provided in [lib.Config].
var Noop = log.Noop

// NewPrintf returns a logger that writes every log line with printf, prefixed
// with the level and followed by the sorted key-values. Debug lines are only
// written when debug is true.
func NewPrintf(printf func(format string, args ...any), debug bool) Logger {
	return printfLogger{printf: printf, debug: debug, values: Kv{}}
}

type printfLogger struct {
	printf func(format string, args ...any)
	debug  bool
	values Kv
}

func (p printfLogger) Infof(format string, args ...any)    { p.log("INFO", format, args) }
func (p printfLogger) Warningf(format string, args ...any) { p.log("WARN", format, args) }
func (p printfLogger) Errorf(format string, args ...any)   { p.log("ERROR", format, args) }
func (p printfLogger) Debugf(format string, args ...any) {
	if p.debug {
		p.log("DEBUG", format, args)
	}
}

func (p printfLogger) WithValues(values Kv) Logger {
	kv := maps.Clone(p.values)
	maps.Copy(kv, values)
	return printfLogger{printf: p.printf, debug: p.debug, values: kv}
}

func (p printfLogger) WithCtxValues(ctx context.Context) Logger {
	return p.WithValues(log.ValuesFromCtx(ctx))
}

func (p printfLogger) SetValuesOnCtx(parent context.Context, values Kv) context.Context {
	return log.CtxWithValues(parent, values)
}

func (p printfLogger) log(level, format string, args []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	fmt.Fprintf(&b, format, args...)
	for _, k := range slices.Sorted(maps.Keys(p.values)) {
		fmt.Fprintf(&b, " %s=%v", k, p.values[k])
	}
	p.printf("%s", b.String())
}
