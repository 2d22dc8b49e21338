package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// writeOutputs writes every configured format into out.Dir. On failure the
// files already written are removed.
func (p *implProcessor) writeOutputs(ctx context.Context, out Output) ([]string, error) {
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	for _, w := range p.writers {
		path := filepath.Join(out.Dir, out.VideoID+w.Ext())
		if err := w.WriteFile(path, out.VideoID, out.Result); err != nil {
			p.discardOutputs(ctx, out.Dir, files)
			return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		p.logger.Info(ctx, "Wrote %s", path)
		files = append(files, path)
	}
	return files, nil
}

// outputPath returns the written file with extension ext, or "".
func (o Output) outputPath(ext string) string {
	for _, f := range o.Files {
		if filepath.Ext(f) == ext {
			return f
		}
	}
	return ""
}
