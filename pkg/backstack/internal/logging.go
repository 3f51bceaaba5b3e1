// Package internal holds backstack infrastructure that is not part of the
// public API.
package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// The shared logger is created by the first Acquire and torn down, closing
// its log file, when the last holder calls Release. Path and level are
// taken from the Acquire that creates it; later holders join as-is.
var (
	mu       sync.Mutex
	refs     int
	logFile  *os.File
	logger   *slog.Logger
	levelVar *slog.LevelVar
)

func openWriter(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return os.Stdout
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Can't open log file, fall back to console-only
		return os.Stdout
	}
	logFile = f

	return io.MultiWriter(os.Stdout, logFile)
}

// Acquire returns the shared JSON logger, creating it with path and level
// if no other holder has it open. Each Acquire must be paired with Release.
func Acquire(path string, level slog.Level) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	refs++
	if logger == nil {
		levelVar = &slog.LevelVar{}
		levelVar.Set(level)

		handler := slog.NewJSONHandler(openWriter(path), &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: false,
		})
		logger = slog.New(handler)
	}
	return logger
}

// Release drops one hold on the shared logger. The last release closes the
// log file so the next Acquire starts fresh.
func Release() {
	mu.Lock()
	defer mu.Unlock()

	if refs == 0 {
		return
	}
	refs--
	if refs > 0 {
		return
	}

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = nil
	levelVar = nil
}

// SetLogLevel changes the level of the shared logger while it is held.
func SetLogLevel(level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	if levelVar != nil {
		levelVar.Set(level)
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level.
// Anything else is info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(rawLevel)) {
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
