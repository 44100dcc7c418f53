package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/pdf2dxf/internal/source"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNew(t *testing.T) {
	if _, err := New(Config{Run: func(context.Context) error { return nil }}); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := New(Config{Path: "drawing.pdf"}); err == nil {
		t.Error("expected error for missing run function")
	}

	w, err := New(Config{Path: "drawing.pdf", Run: func(context.Context) error { return nil }})
	if err != nil {
		t.Fatal(err)
	}
	if w.cfg.Debounce != DefaultDebounce || w.cfg.Attempts != 1 {
		t.Errorf("defaults not applied: %+v", w.cfg)
	}
	if !filepath.IsAbs(w.path) {
		t.Errorf("expected absolute path, got %s", w.path)
	}
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.pdf")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	var runs atomic.Int32
	w, err := New(Config{
		Path:     path,
		Debounce: 50 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, func() bool { return runs.Load() == 1 })

	// Changes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("unrelated file triggered a run: %d runs", got)
	}

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return runs.Load() >= 2 })

	w.Trigger()
	waitFor(t, func() bool { return runs.Load() >= 3 })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_RetriesOnlyOpenErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int32
	}{
		{"open error retried", fmt.Errorf("failed to open source: %w", source.ErrOpen), 3},
		{"other error not retried", fmt.Errorf("page 1 item 0: bad payload"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			w, err := New(Config{
				Path:       "drawing.pdf",
				Attempts:   3,
				RetryDelay: time.Millisecond,
				Run: func(context.Context) error {
					calls.Add(1)
					return tt.err
				},
			})
			if err != nil {
				t.Fatal(err)
			}

			w.runOnce(context.Background())
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, got)
			}
		})
	}
}
