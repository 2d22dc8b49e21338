package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"lecture.mp4", true},
		{"lecture.MKV", true},
		{"dir/clip.webm", true},
		{"clip.wmv", true},
		{"notes.srt", false},
		{"audio.wav", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// toolExecutor answers version probes without touching the filesystem.
type toolExecutor struct {
	missing string
	calls   []string
}

func (e *toolExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	e.calls = append(e.calls, name)
	if name == e.missing {
		return "", errors.New("executable file not found in $PATH")
	}
	return name + " version", nil
}

func (e *toolExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return e.Execute(ctx, name, args...)
}

func TestCheckTools(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		missing   string
		wantErr   bool
		wantCalls int
	}{
		{"all present", config.BackendCLI, "", false, 2},
		{"ffmpeg missing", config.BackendCLI, "ffmpeg", true, 1},
		{"whisper missing", config.BackendCLI, "whisper-cli", true, 2},
		{"server backend skips whisper binary", config.BackendServer, "whisper-cli", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t, nil)
			cfg.Whisper.Backend = tt.backend
			exec := &toolExecutor{missing: tt.missing}

			err := CheckTools(context.Background(), exec, cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckTools() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(exec.calls) != tt.wantCalls {
				t.Errorf("CheckTools() ran %v, want %d probes", exec.calls, tt.wantCalls)
			}
		})
	}
}
