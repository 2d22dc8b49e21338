package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// burnSubtitle renders the SRT output into a copy of the video.
// ffmpeg runs inside a private temp dir so that the subtitles filter gets a
// bare relative file name.
func (p *implProcessor) burnSubtitle(ctx context.Context, videoPath string, out Output) (string, error) {
	srtPath := out.outputPath(".srt")
	if srtPath == "" {
		return "", fmt.Errorf("no srt output to burn")
	}
	outputPath := filepath.Join(out.Dir, out.VideoID+"_subtitled"+filepath.Ext(videoPath))

	p.logger.Info(ctx, "Burning subtitle into video: %s", videoPath)

	tempDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "burn-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// ASS styling renders CJK better; fall back to the SRT if conversion fails
	subFilename := "subtitle.ass"
	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.BinaryPath, "-i", srtPath, "-y", filepath.Join(tempDir, subFilename)); err != nil {
		p.logger.Warn(ctx, "Failed to convert SRT to ASS, using SRT: %v", err)
		subFilename = "subtitle.srt"
		if err := copyFile(srtPath, filepath.Join(tempDir, subFilename)); err != nil {
			return "", fmt.Errorf("copy subtitle to temp: %w", err)
		}
	}

	absVideoPath, err := filepath.Abs(videoPath)
	if err != nil {
		return "", fmt.Errorf("resolve video path: %w", err)
	}
	tempOutput := filepath.Join(tempDir, "output"+filepath.Ext(videoPath))
	absTempOutput, err := filepath.Abs(tempOutput)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	args := []string{
		"-y",
		"-i", absVideoPath,
		"-vf", fmt.Sprintf("subtitles=%s", subFilename),
		"-c:v", p.cfg.FFmpeg.Encoder,
		"-b:v", p.cfg.FFmpeg.VideoBitrate,
		"-c:a", p.cfg.FFmpeg.AudioCodec,
		absTempOutput,
	}

	if _, err := p.executor.ExecuteInDir(ctx, tempDir, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		p.logger.Warn(ctx, "Encoder %s failed, trying libx264: %v", p.cfg.FFmpeg.Encoder, err)
		if err := p.burnSubtitleSoftware(ctx, tempDir, absVideoPath, subFilename, absTempOutput); err != nil {
			return "", fmt.Errorf("both hardware and software encoders failed: %w", err)
		}
	}

	if err := os.Rename(tempOutput, outputPath); err != nil {
		if err := copyFile(tempOutput, outputPath); err != nil {
			return "", fmt.Errorf("move output to final location: %w", err)
		}
	}

	p.logger.Info(ctx, "Subtitle burned successfully: %s", outputPath)
	return outputPath, nil
}

// burnSubtitleSoftware uses software encoder as fallback
func (p *implProcessor) burnSubtitleSoftware(ctx context.Context, workDir, videoPath, subFilename, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("subtitles=%s", subFilename),
		"-c:v", "libx264",
		"-preset", p.cfg.FFmpeg.Preset,
		"-crf", "23",
		"-c:a", "copy",
		outputPath,
	}

	if _, err := p.executor.ExecuteInDir(ctx, workDir, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return fmt.Errorf("software encoder failed: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
