package backstack

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/backstack/pkg/backstack/reorder"
)

// Options configures a Manager.
//
// Without a Logger, Managers share one process-wide JSON logger. LogPath and
// LogLevel are applied only by the Manager that creates it; Managers created
// while it is open log to the same destination at the same level. It is
// closed when the last of those Managers is closed.
type Options struct {
	LogPath   string       `toml:"log_path"`   // Full path for a JSON log file (creates parent directories)
	LogLevel  string       `toml:"log_level"`  // "debug", "info", "warn" or "error"
	MatchMode string       `toml:"match_mode"` // "structural" (default) or "concat"
	QueueSize int          `toml:"queue_size"` // Pending transactions buffered before Enqueue blocks
	Logger    *slog.Logger `toml:"-"`          // Overrides the shared logger when set
}

// LoadOptions reads Options from a TOML file. Unknown keys are an error.
func LoadOptions(path string) (Options, error) {
	var options Options
	md, err := toml.DecodeFile(path, &options)
	if err != nil {
		return Options{}, fmt.Errorf("backstack: load options %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, fmt.Errorf("backstack: load options %s: unknown keys %v", path, undecoded)
	}
	if _, err := ParseMatchMode(options.MatchMode); err != nil {
		return Options{}, fmt.Errorf("backstack: load options %s: %w", path, err)
	}
	return options, nil
}

// ParseMatchMode maps a configuration value to a removal match mode.
// An empty value selects structural matching.
func ParseMatchMode(raw string) (reorder.MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "structural":
		return reorder.MatchStructural, nil
	case "concat":
		return reorder.MatchConcat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMatchMode, raw)
	}
}
