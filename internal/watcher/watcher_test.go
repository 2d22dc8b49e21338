package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
)

func TestWatcherHandlesNewVideos(t *testing.T) {
	dir := t.TempDir()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{}, 8)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		got = append(got, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, handler, logger.Nop(), 1, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	for _, name := range []string{"notes.txt", "lesson.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called for lesson.mp4")
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "lesson.mp4" {
		t.Errorf("handled = %v, want [lesson.mp4]", got)
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, logger.Nop(), 1, 0)
	if err == nil {
		t.Fatal("New() on a missing dir should fail")
	}
}

func TestClaim(t *testing.T) {
	w := &implWatcher{inFlight: make(map[string]struct{})}
	if !w.claim("a.mp4") {
		t.Fatal("first claim should succeed")
	}
	if w.claim("a.mp4") {
		t.Error("second claim while in flight should fail")
	}
	w.release("a.mp4")
	if !w.claim("a.mp4") {
		t.Error("claim after release should succeed")
	}
}
