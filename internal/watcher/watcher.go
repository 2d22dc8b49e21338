package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
)

var errClosed = errors.New("watcher closed")

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	settle        time.Duration
	semaphore     chan struct{}
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Start blocks until ctx is cancelled or the watcher is stopped. Handlers
// already running are waited for before it returns.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errClosed
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !processor.IsVideoFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}
			if !w.claim(event.Name) {
				continue
			}
			w.logger.Info(ctx, "New video detected: %s", event.Name)

			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				w.release(event.Name)
				return ctx.Err()
			}
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errClosed
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()
	defer w.release(path)

	if w.settle > 0 {
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}
	}

	if err := w.handler(ctx, path); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", path, err)
	}
}

// claim reports whether path is not already being handled and marks it.
func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[path]; busy {
		return false
	}
	w.inFlight[path] = struct{}{}
	return true
}

func (w *implWatcher) release(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

// Stop closes the file watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
