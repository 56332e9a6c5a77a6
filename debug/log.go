// Package debug writes categorized logs to a file. Logging is off until Enable
// is called, so the terminal UI is never disturbed.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	file    io.WriteCloser
	root    *slog.Logger
	level   = new(slog.LevelVar)
	loggers = map[string]*slog.Logger{}
	mu      sync.Mutex
	enabled bool
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// DefaultPath returns ~/.config/go-kontrol/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-kontrol", "debug.log")
}

// Enable starts debug logging to path (DefaultPath if empty)
func Enable(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	EnableWriter(f)
	return nil
}

// EnableWriter starts debug logging to w, which is closed by Disable
func EnableWriter(w io.WriteCloser) {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
	}
	file = w
	level.Set(slog.LevelDebug)
	root = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	loggers = map[string]*slog.Logger{}
	enabled = true

	root.Info("debug logging started", "category", "meta")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	root = nil
	loggers = map[string]*slog.Logger{}
	enabled = false
}

// SetLevel changes the minimum level written
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Get returns a logger tagged with category. It discards everything while
// logging is disabled.
func Get(category string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return discard
	}
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.With("category", category)
	loggers[category] = l
	return l
}

// Log writes a printf-style debug message
func Log(category, format string, args ...any) {
	mu.Lock()
	on := enabled
	mu.Unlock()
	if !on {
		return
	}
	Get(category).Debug(fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
