package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// cliOutput is the file written by whisper.cpp with -oj.
type cliOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Recognize runs whisper.cpp with JSON output and reads the segments back.
// The JSON file is removed afterwards.
func (r *implCLI) Recognize(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	// whisper.cpp appends .json to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	r.logger.Info(ctx, "Starting recognition with %d threads: %s", r.cfg.Threads, audioPath)

	// -ml 0 / -mc 0: no segment length or context limit
	// -bo 5: best of 5
	args := []string{
		"-m", r.cfg.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", r.cfg.Language,
		"-t", strconv.Itoa(r.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if r.cfg.Prompt != "" {
		args = append(args, "--prompt", r.cfg.Prompt)
	}
	if !r.cfg.UseGPU {
		args = append(args, "-ng")
	}

	if _, err := r.executor.Execute(ctx, r.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper recognize: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	segs, err := parseCLIOutput(data)
	if err != nil {
		return nil, err
	}

	r.logger.Info(ctx, "Recognition completed: %d segments", len(segs))
	return segs, nil
}

func parseCLIOutput(data []byte) ([]transcript.Segment, error) {
	var out cliOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segs := make([]transcript.Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{Text: text, StartMs: t.Offsets.From, EndMs: t.Offsets.To})
	}
	return segs, nil
}
