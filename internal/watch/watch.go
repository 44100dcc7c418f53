// Package watch re-runs a conversion whenever its source file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// Default timings.
const (
	DefaultDebounce   = 250 * time.Millisecond
	DefaultRetryDelay = 200 * time.Millisecond
)

// Config configures a Watcher.
type Config struct {
	// Path is the file to watch. Its parent directory is watched so that
	// editors which replace the file by rename are still seen.
	Path string

	// Run performs one conversion.
	Run func(ctx context.Context) error

	// Debounce is the quiet period after the last change before Run is called.
	Debounce time.Duration

	// Attempts is the number of tries per change while the source cannot be
	// opened, for example because it is still being written.
	Attempts uint

	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration

	Logger *slog.Logger
}

// Watcher runs a conversion once at start and again after every change.
type Watcher struct {
	cfg     Config
	path    string
	logger  *slog.Logger
	trigger chan struct{}
}

// New creates a watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.Run == nil {
		return nil, fmt.Errorf("run function is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Path, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		cfg:     cfg,
		path:    path,
		logger:  logger.With("watch", path),
		trigger: make(chan struct{}, 1),
	}, nil
}

// Trigger schedules a run as if the source had changed. Safe to call from
// any goroutine.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled. Conversion failures are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.runOnce(ctx)

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("source changed", "op", ev.Op.String())
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-w.trigger:
			timer.Reset(w.cfg.Debounce)

		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	err := retry.Do(
		func() error { return w.cfg.Run(ctx) },
		retry.Context(ctx),
		retry.Attempts(w.cfg.Attempts),
		retry.Delay(w.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, source.ErrOpen)
		}),
		retry.OnRetry(func(n uint, err error) {
			w.logger.Debug("source not readable yet", "attempt", n+1, "error", err)
		}),
	)
	if err != nil && ctx.Err() == nil {
		w.logger.Error("conversion failed", "error", err)
	}
}
