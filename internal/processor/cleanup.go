package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moveToArchived moves the source video into the archive folder.
func (p *implProcessor) moveToArchived(ctx context.Context, videoPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(videoPath))

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", videoPath, destPath)

	if err := os.Rename(videoPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// discardOutputs deletes the outputs of a failed video, and its output
// directory once empty.
func (p *implProcessor) discardOutputs(ctx context.Context, dir string, files []string) {
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			p.logger.Warn(ctx, "Failed to remove %s: %v", f, err)
		}
	}
	// fails while other files remain
	_ = os.Remove(dir)
}

// cleanupTempDir removes a work directory, logs warning if fails
func (p *implProcessor) cleanupTempDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
