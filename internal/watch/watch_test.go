package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWatchedFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "prog.json")
	if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{p}, 20*time.Millisecond)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go w.Run(ctx)

	go func() {
		_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644)
		_ = os.WriteFile(p, []byte(`{"types":[]}`), 0o644)
	}()

	select {
	case got := <-w.Changes():
		want, _ := filepath.Abs(p)
		if got != want {
			t.Fatalf("changed path = %q, want %q", got, want)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for change")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "prog.json")
	if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{p}, time.Millisecond)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-w.Changes(); ok {
		t.Fatal("Changes should be closed after Run returns")
	}
}
