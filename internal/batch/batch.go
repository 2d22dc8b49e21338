package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
)

// ErrDuplicateName is recorded for a video whose output directory is already
// claimed by an earlier video with the same base name.
var ErrDuplicateName = errors.New("another video with the same name is in this batch")

// Discover returns every video under root, sorted. A missing root is created
// and yields no videos.
func Discover(root string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("create input dir: %w", err)
		}
		return nil, nil
	}

	var videos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if processor.IsVideoFile(path) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(videos)
	return videos, nil
}

// Run processes every video under root. A failed video is recorded in the
// report and does not stop the others; only a cancelled ctx or an unreadable
// root ends the batch early.
func (r *implRunner) Run(ctx context.Context, root string) (Report, error) {
	videos, err := Discover(root)
	if err != nil {
		return Report{}, err
	}
	if len(videos) == 0 {
		r.logger.Info(ctx, "No video files found in %s (supported: %s)", root, strings.Join(processor.VideoExtensions, ", "))
		return Report{}, nil
	}
	r.logger.Info(ctx, "Found %d video files", len(videos))

	type result struct {
		out processor.Output
		err error
	}
	results := make([]result, len(videos))

	claimed := make(map[string]string, len(videos))
	var g errgroup.Group
	g.SetLimit(r.maxConcurrent)

	for i, video := range videos {
		id := processor.VideoID(video)
		if first, ok := claimed[id]; ok {
			results[i].err = fmt.Errorf("%w: %s", ErrDuplicateName, first)
			continue
		}
		claimed[id] = video

		if ctx.Err() != nil {
			results[i].err = ctx.Err()
			continue
		}
		g.Go(func() error {
			r.logger.Info(ctx, "[%d/%d] Processing %s", i+1, len(videos), video)
			out, err := r.processor.Process(ctx, video)
			results[i] = result{out: out, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var report Report
	for i, res := range results {
		if res.err != nil {
			r.logger.Error(ctx, "Failed to process %s: %v", videos[i], res.err)
			report.Failed = append(report.Failed, Failure{VideoPath: videos[i], Err: res.err})
			continue
		}
		report.Succeeded = append(report.Succeeded, res.out)
	}

	r.logger.Info(ctx, "Batch complete: %d succeeded, %d failed", len(report.Succeeded), len(report.Failed))
	return report, ctx.Err()
}
