// Package logger owns the process-wide slog logger. Until Setup succeeds every
// call goes to a discard handler, so packages may log unconditionally.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DirName  = ".studytrack"
	FileName = "studytrack.log"

	// DefaultMaxBytes is the size at which Setup moves the log to FileName.1.
	DefaultMaxBytes int64 = 5 << 20
)

type Config struct {
	Root  string
	Debug bool
	// MaxBytes overrides DefaultMaxBytes; negative disables rotation.
	MaxBytes int64
}

// sink is the open log file behind the global logger.
type sink struct {
	file  *os.File
	path  string
	since time.Time
}

var (
	mu      sync.RWMutex
	global  = discard()
	current sink
)

// Setup opens <Root>/.studytrack/logs/studytrack.log for appending, keeping one
// rotated copy once the file outgrows MaxBytes. The returned cleanup closes the
// file and restores the discard logger.
func Setup(cfg Config) (func() error, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	dir := filepath.Join(filepath.Clean(root), DirName, "logs")
	path := filepath.Join(dir, FileName)

	f, err := openLog(dir, path, cfg.maxBytes())
	if err != nil {
		reset()
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:       level,
		AddSource:   cfg.Debug,
		ReplaceAttr: utcTime,
	})).With("app", "studytrack")

	mu.Lock()
	global = l
	current = sink{file: f, path: path, since: time.Now().UTC()}
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var err error
		if current.file != nil {
			err = current.file.Close()
		}
		current = sink{}
		global = discard()
		return err
	}, nil
}

func (c Config) maxBytes() int64 {
	if c.MaxBytes == 0 {
		return DefaultMaxBytes
	}
	return c.MaxBytes
}

func openLog(dir, path string, maxBytes int64) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if maxBytes > 0 {
		if st, err := os.Stat(path); err == nil && st.Size() >= maxBytes {
			if err := os.Rename(path, path+".1"); err != nil {
				return nil, fmt.Errorf("rotate log: %w", err)
			}
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component returns the process logger tagged with a component name.
func Component(name string) *slog.Logger {
	return L().With("component", name)
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.path
}

func InitTime() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return current.since
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if current.file == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	current = sink{}
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
