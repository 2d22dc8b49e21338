package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/pkg/executor"
)

// VideoExtensions lists the containers picked up in batch and watch mode.
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv", ".m4v", ".webm"}

// IsVideoFile checks if the file has a supported video extension
func IsVideoFile(path string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// CheckTools verifies that the external programs the configuration relies on
// can be started.
func CheckTools(ctx context.Context, exec executor.Executor, cfg *config.Config) error {
	if _, err := exec.Execute(ctx, cfg.FFmpeg.BinaryPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}
	if cfg.Whisper.Backend == config.BackendCLI {
		if _, err := exec.Execute(ctx, cfg.Whisper.BinaryPath, "--help"); err != nil {
			return fmt.Errorf("whisper.cpp not available: %w", err)
		}
	}
	return nil
}
