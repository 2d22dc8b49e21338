package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// serverOutput is the verbose_json body returned by /inference.
type serverOutput struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Recognize uploads the WAV file to /inference as multipart/form-data.
func (r *implServer) Recognize(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	for _, f := range [][2]string{
		{"response_format", "verbose_json"},
		{"language", r.cfg.Language},
		{"prompt", r.cfg.Prompt},
	} {
		if f[1] == "" {
			continue
		}
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write %s field: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.ServerURL+"/inference", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	r.logger.Info(ctx, "Sending %s to whisper server %s", audioPath, r.cfg.ServerURL)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper server returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	segs, err := parseServerOutput(data)
	if err != nil {
		return nil, err
	}
	r.logger.Info(ctx, "Recognition completed: %d segments", len(segs))
	return segs, nil
}

func parseServerOutput(data []byte) ([]transcript.Segment, error) {
	var out serverOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper response: %w", err)
	}

	segs := make([]transcript.Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{Text: text, StartMs: secondsToMs(s.Start), EndMs: secondsToMs(s.End)})
	}
	return segs, nil
}

func secondsToMs(s float64) int64 {
	return int64(math.Round(s * 1000))
}
