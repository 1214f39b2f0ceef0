// Package logger writes one JSON object per line with ts, level and msg plus
// arbitrary fields. Output goes to stdout or to a rotating file.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/natefinch/lumberjack"

	"gymapi/internal/config"
)

// Fields are the extra key/value pairs attached to a log line.
type Fields map[string]any

// Logger is safe for concurrent use. Derived loggers share the handler's writer.
type Logger struct {
	l *slog.Logger
}

// New builds a logger from settings. File output rotates through lumberjack.
func New(cfg config.LoggerConfig, loc *time.Location) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if cfg.Type == config.LogTypeFile {
		out = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
	return NewWithWriter(out, cfg.Level, loc), nil
}

// NewWithWriter returns a logger writing to w. Unknown levels fall back to info.
func NewWithWriter(w io.Writer, level string, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: replaceAttr(loc),
	})
	return &Logger{l: slog.New(h)}
}

// Nop discards everything.
func Nop() *Logger {
	return NewWithWriter(io.Discard, config.LogLevelError, time.UTC)
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return config.LogLevelError
	case l >= slog.LevelWarn:
		return config.LogLevelWarning
	case l >= slog.LevelInfo:
		return config.LogLevelInfo
	default:
		return config.LogLevelDebug
	}
}

// replaceAttr renames the built-in keys to ts/level/msg and drops an empty msg.
func replaceAttr(loc *time.Location) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.TimeKey:
			return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
		case slog.LevelKey:
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				return slog.String(slog.LevelKey, levelName(lvl))
			}
		case slog.MessageKey:
			if a.Value.String() == "" {
				return slog.Attr{}
			}
		}
		return a
	}
}

// attrs flattens f in key order so lines are stable across runs.
func attrs(f Fields) []any {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, f[k]))
	}
	return out
}

// With returns a child logger that adds f to every line.
func (l *Logger) With(f Fields) *Logger {
	return &Logger{l: l.l.With(attrs(f)...)}
}

// Component tags lines with the emitting component.
func (l *Logger) Component(name string) *Logger {
	return l.With(Fields{"component": name})
}

func (l *Logger) Debug(msg string, f Fields) { l.write(slog.LevelDebug, msg, f) }
func (l *Logger) Info(msg string, f Fields)  { l.write(slog.LevelInfo, msg, f) }
func (l *Logger) Warn(msg string, f Fields)  { l.write(slog.LevelWarn, msg, f) }

// Error logs at error level and records err under error_message.
func (l *Logger) Error(msg string, err error, f Fields) {
	if err != nil {
		g := make(Fields, len(f)+1)
		for k, v := range f {
			g[k] = v
		}
		g["error_message"] = err.Error()
		f = g
	}
	l.write(slog.LevelError, msg, f)
}

func (l *Logger) write(level slog.Level, msg string, f Fields) {
	l.l.Log(context.Background(), level, msg, attrs(f)...)
}
