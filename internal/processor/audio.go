package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
)

// extractAudio converts the video's audio track to mono 16-bit PCM WAV at the
// configured sample rate inside workDir.
func (p *implProcessor) extractAudio(ctx context.Context, videoPath, workDir string) (string, error) {
	audioPath := filepath.Join(workDir, "audio.wav")

	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: drop video; -ac 1: mono; -threads 0: all cores
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}
