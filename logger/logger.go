// Package logger provides a minimal slog-based logging wrapper.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Level  string
	Output io.Writer // nil discards everything
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(io.Discard, nil))

	savedCfg Config
)

// Init configures the process-wide logger.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	savedCfg = cfg
	rebuild()
}

// Stderr is the usual console-mode configuration.
func Stderr(level string) Config {
	return Config{Level: level, Output: os.Stderr}
}

// rebuild reconstructs the handler from current state.
// Must be called with mu held.
func rebuild() {
	out := savedCfg.Output
	if out == nil {
		out = io.Discard
	}
	base = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(savedCfg.Level)}))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
