package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// VideoID is the file name of videoPath without its extension.
func VideoID(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Process runs extract, recognize, assemble and write for one video. When a
// step fails nothing is left in the video's output directory.
func (p *implProcessor) Process(ctx context.Context, videoPath string) (Output, error) {
	ctx, span := observe.StartSpan(ctx, "processor.process",
		trace.WithAttributes(attribute.String("video.path", videoPath)))
	p.metrics.ActiveVideos.Add(ctx, 1)

	out, err := p.process(ctx, videoPath)

	p.metrics.ActiveVideos.Add(ctx, -1)
	p.metrics.RecordVideo(ctx, err)
	observe.EndSpan(span, err)
	return out, err
}

func (p *implProcessor) process(ctx context.Context, videoPath string) (Output, error) {
	startTime := time.Now()
	out := Output{
		VideoID: VideoID(videoPath),
	}
	out.Dir = filepath.Join(p.cfg.Paths.Output, out.VideoID)

	p.logger.Info(ctx, "Starting video processing: %s", videoPath)

	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return out, fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(p.cfg.Paths.Temp, out.VideoID+"-*")
	if err != nil {
		return out, fmt.Errorf("create work dir: %w", err)
	}
	defer p.cleanupTempDir(ctx, workDir)

	// Step 1: Extract audio
	var audioPath string
	if err := p.stage(ctx, observe.StageExtract, func(ctx context.Context) error {
		audioPath, err = p.extractAudio(ctx, videoPath, workDir)
		return err
	}); err != nil {
		return out, fmt.Errorf("extract audio: %w", err)
	}

	// Step 2: Recognize speech
	var segs []transcript.Segment
	if err := p.stage(ctx, observe.StageRecognize, func(ctx context.Context) error {
		segs, err = p.recognizer.Recognize(ctx, audioPath)
		return err
	}); err != nil {
		return out, fmt.Errorf("recognize: %w", err)
	}

	// Step 3: Normalize and assemble
	if err := p.stage(ctx, observe.StageAssemble, func(ctx context.Context) error {
		out.Result, err = p.pipeline.Process(segs)
		return err
	}); err != nil {
		return out, fmt.Errorf("assemble transcript: %w", err)
	}
	p.recordAssembly(ctx, len(segs), out.Result)

	// Step 4: Write documents and subtitles
	if err := p.stage(ctx, observe.StageWrite, func(ctx context.Context) error {
		out.Files, err = p.writeOutputs(ctx, out)
		return err
	}); err != nil {
		return out, fmt.Errorf("write outputs: %w", err)
	}

	// Step 5: Optionally burn subtitles into a copy of the video
	if p.cfg.Output.BurnSubtitles {
		if err := p.stage(ctx, observe.StageBurn, func(ctx context.Context) error {
			out.Burned, err = p.burnSubtitle(ctx, videoPath, out)
			return err
		}); err != nil {
			p.discardOutputs(ctx, out.Dir, out.Files)
			return out, fmt.Errorf("burn subtitle: %w", err)
		}
	}

	// Step 6: Move original video to archived folder
	if p.cfg.Output.Archive {
		if err := p.moveToArchived(ctx, videoPath); err != nil {
			p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
		}
	}

	p.logger.Info(ctx, "Processing completed: %s (%d paragraphs, %d cues, %d dropped) in %s",
		out.VideoID, len(out.Result.Paragraphs), len(out.Result.Cues), len(out.Result.Dropped), time.Since(startTime))
	return out, nil
}

// stage runs fn inside a span and records its latency.
func (p *implProcessor) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := observe.StartSpan(ctx, "processor."+name)
	start := time.Now()
	err := fn(ctx)
	p.metrics.RecordStage(ctx, name, start, err)
	observe.EndSpan(span, err)
	return err
}

func (p *implProcessor) recordAssembly(ctx context.Context, segments int, res transcript.Result) {
	dropped := make(map[string]int)
	for _, a := range res.Dropped {
		dropped[a.Reason]++
		p.logger.Debug(ctx, "Dropped segment %d [%d, %d] %q: %s",
			a.Index, a.Segment.StartMs, a.Segment.EndMs, a.Segment.Text, a.Reason)
	}
	if len(res.Dropped) > 0 {
		p.logger.Warn(ctx, "Dropped %d of %d segments", len(res.Dropped), segments)
	}
	p.metrics.RecordAssembly(ctx, segments, len(res.Paragraphs), len(res.Cues), dropped)
}
