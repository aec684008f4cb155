package logging

import (
	"context"
	"log/slog"
	"time"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Strings(key string, values []string) slog.Attr { return slog.Any(key, values) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error records err under "error"; a nil error is dropped.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with the component field. A nil logger
// yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

// Event classifies a warning. Hint and Impact are defaults that call sites
// may override with their own error_hint or impact attributes.
type Event struct {
	Type   string
	Hint   string
	Impact string
}

// Warn logs msg tagged with ev's event_type, error_hint and impact.
func Warn(logger *slog.Logger, ev Event, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	hint, impact := ev.Hint, ev.Impact
	kept := attrs[:0:0]
	for _, a := range attrs {
		switch a.Key {
		case FieldErrorHint:
			hint = a.Value.String()
		case FieldImpact:
			impact = a.Value.String()
		default:
			kept = append(kept, a)
		}
	}
	kept = append(kept, slog.String(FieldEventType, ev.Type))
	if hint != "" {
		kept = append(kept, slog.String(FieldErrorHint, hint))
	}
	if impact != "" {
		kept = append(kept, slog.String(FieldImpact, impact))
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, kept...)
}
