package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
)

// DefaultSettle is how long a new file is left alone before it is handled,
// so the copy that created it has a chance to finish.
const DefaultSettle = 500 * time.Millisecond

// New creates a Watcher on inputDir. At most maxConcurrent handlers run at once.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if settle < 0 {
		settle = DefaultSettle
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		settle:        settle,
		semaphore:     make(chan struct{}, maxConcurrent),
		inFlight:      make(map[string]struct{}),
	}, nil
}
