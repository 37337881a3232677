// Package tracelog provides a tracer that acts as a traditional logger.
package tracelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgxadapt"
)

// LogLevel represents the pgxadapt logging level. See LogLevel* constants for
// possible values.
type LogLevel int

// The values for log levels are chosen such that the zero value means that no
// log level was specified.
const (
	LogLevelTrace = LogLevel(6)
	LogLevelDebug = LogLevel(5)
	LogLevelInfo  = LogLevel(4)
	LogLevelWarn  = LogLevel(3)
	LogLevelError = LogLevel(2)
	LogLevelNone  = LogLevel(1)
)

func (ll LogLevel) String() string {
	switch ll {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	case LogLevelNone:
		return "none"
	default:
		return fmt.Sprintf("invalid level %d", ll)
	}
}

// Logger is the interface used to get log output from pgxadapt.
type Logger interface {
	// Log a message at the given level with data key/value pairs. data may be nil.
	Log(ctx context.Context, level LogLevel, msg string, data map[string]any)
}

// LoggerFunc is a wrapper around a function to satisfy the Logger interface
type LoggerFunc func(ctx context.Context, level LogLevel, msg string, data map[string]any)

// Log delegates the logging request to the wrapped function
func (f LoggerFunc) Log(ctx context.Context, level LogLevel, msg string, data map[string]any) {
	f(ctx, level, msg, data)
}

// LogLevelFromString converts log level string to constant
//
// Valid levels:
//
//	trace
//	debug
//	info
//	warn
//	error
//	none
func LogLevelFromString(s string) (LogLevel, error) {
	switch s {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "none":
		return LogLevelNone, nil
	default:
		return 0, errors.New("invalid log level")
	}
}

// TraceLog implements pgxadapt.ResolveTracer. Logger and LogLevel are required.
//
// Failed adapter lookups are logged at LogLevelError. Columns decoded by the fallback caster are logged at
// LogLevelInfo. Successful resolutions are logged at LogLevelDebug and result bindings at LogLevelTrace.
type TraceLog struct {
	Logger   Logger
	LogLevel LogLevel
}

func (tl *TraceLog) TraceResolveAdapter(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceResolveAdapterData) {
	if data.Err != nil {
		if tl.shouldLog(LogLevelError) {
			tl.log(ctx, conn, LogLevelError, "ResolveAdapter", map[string]any{"type": data.HostType.String(), "format": data.Format.String(), "err": data.Err})
		}
		return
	}

	if tl.shouldLog(LogLevelDebug) {
		tl.log(ctx, conn, LogLevelDebug, "ResolveAdapter", map[string]any{"type": data.HostType.String(), "format": data.Format.String()})
	}
}

func (tl *TraceLog) TraceResolveCaster(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceResolveCasterData) {
	lvl := LogLevelDebug
	if data.Fallback {
		lvl = LogLevelInfo
	}

	if tl.shouldLog(lvl) {
		tl.log(ctx, conn, lvl, "ResolveCaster", map[string]any{"oid": data.OID, "format": data.Format.String(), "fallback": data.Fallback})
	}
}

func (tl *TraceLog) TraceBindResult(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceBindResultData) {
	if tl.shouldLog(LogLevelTrace) {
		tl.log(ctx, conn, LogLevelTrace, "BindResult", map[string]any{"nfields": data.NFields, "ntuples": data.NTuples})
	}
}

func (tl *TraceLog) shouldLog(lvl LogLevel) bool {
	return tl.LogLevel >= lvl
}

func (tl *TraceLog) log(ctx context.Context, conn *pgxadapt.Conn, lvl LogLevel, msg string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	if conn != nil {
		data["clientEncoding"] = conn.ClientEncoding()
	}

	tl.Logger.Log(ctx, lvl, msg, data)
}
