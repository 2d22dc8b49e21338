package watcher

import "context"

// Watcher monitors the input directory and hands each new video to an EventHandler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one detected video file.
type EventHandler func(ctx context.Context, filePath string) error
