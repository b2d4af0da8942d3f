package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan string, 4)
	w := New(path, func(_ context.Context, p string) error {
		reloaded <- p
		return nil
	}, nil)
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Other files in the directory are ignored; keep writing the watched one
	// until the watcher is registered and reports it.
	_ = os.WriteFile(filepath.Join(dir, "other.png"), []byte("x"), 0o644)
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case p := <-reloaded:
			if p != path {
				t.Fatalf("expected reload of %q, got %q", path, p)
			}
			return
		case <-tick.C:
			_ = os.WriteFile(path, []byte("b"), 0o644)
		case err := <-done:
			t.Skipf("watcher unavailable: %v", err)
		case <-deadline:
			t.Fatal("timeout waiting for reload")
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "shot.png"), func(context.Context, string) error { return nil }, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
