package summarizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
	"github.com/nguyentantai21042004/zh-transcribe/internal/writer"
)

type call struct {
	key    string
	prompt string
}

func newTestSummarizer(t *testing.T, keys []string, gen GenerateFunc) (*implSummarizer, string) {
	t.Helper()
	metrics, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "summaries")
	cfg := config.GeminiConfig{Model: "gemini-2.5-flash", APIKeys: keys, OutputDir: dir, MaxRetries: 2}
	s := New(cfg, writer.Style{}, logger.Nop(), metrics).(*implSummarizer)
	s.generate = gen
	s.backoff = 0
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s, dir
}

func TestSummarizeAll(t *testing.T) {
	var calls []call
	gen := func(ctx context.Context, key, model, prompt string) (string, error) {
		calls = append(calls, call{key, prompt})
		return "## 主题\n\n- **第一步**：打开软件\n", nil
	}
	s, dir := newTestSummarizer(t, []string{"k1"}, gen)

	records := []transcript.Record{
		{VideoID: "lesson01", ProseText: "今天我们学习剪辑。"},
		{VideoID: "lesson02", ProseText: "  "},
	}
	report, err := s.SummarizeAll(context.Background(), records)
	if err != nil {
		t.Fatalf("SummarizeAll() error = %v", err)
	}

	if len(calls) != 1 || !strings.Contains(calls[0].prompt, "今天我们学习剪辑。") {
		t.Fatalf("calls = %+v, want one prompt carrying the prose", calls)
	}
	if _, ok := report.Failed["lesson02"]; !ok || len(report.Failed) != 1 {
		t.Errorf("Failed = %v, want only lesson02", report.Failed)
	}
	if len(report.Written) != 3 {
		t.Errorf("Written = %v, want md, docx and index", report.Written)
	}

	md, err := os.ReadFile(filepath.Join(dir, "lesson01.md"))
	if err != nil {
		t.Fatal(err)
	}
	want := "# lesson01\n\n_2026-03-01 09:30_\n\n## 主题\n\n- **第一步**：打开软件\n"
	if string(md) != want {
		t.Errorf("markdown = %q, want %q", md, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "lesson01.docx")); err != nil {
		t.Errorf("docx not written: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(dir, indexName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "- [lesson01](lesson01.md)") || strings.Contains(string(index), "lesson02") {
		t.Errorf("index = %q", index)
	}
}

func TestSummarizeKeyRotation(t *testing.T) {
	rateLimited := errors.New("Error 429, RESOURCE_EXHAUSTED")

	tests := []struct {
		name     string
		keys     []string
		fail     func(key string, n int) error
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "first key works",
			keys:     []string{"a", "b"},
			fail:     func(string, int) error { return nil },
			wantKeys: []string{"a"},
		},
		{
			name: "rotates past limited key",
			keys: []string{"a", "b"},
			fail: func(key string, _ int) error {
				if key == "a" {
					return rateLimited
				}
				return nil
			},
			wantKeys: []string{"a", "b"},
		},
		{
			name:     "retries rounds then gives up",
			keys:     []string{"a", "b"},
			fail:     func(string, int) error { return rateLimited },
			wantKeys: []string{"a", "b", "a", "b"},
			wantErr:  true,
		},
		{
			name: "succeeds in second round",
			keys: []string{"a"},
			fail: func(_ string, n int) error {
				if n == 0 {
					return rateLimited
				}
				return nil
			},
			wantKeys: []string{"a", "a"},
		},
		{
			name:     "other errors are not retried",
			keys:     []string{"a", "b"},
			fail:     func(string, int) error { return errors.New("invalid argument") },
			wantKeys: []string{"a"},
			wantErr:  true,
		},
		{
			name:    "no keys",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var used []string
			gen := func(ctx context.Context, key, model, prompt string) (string, error) {
				n := len(used)
				used = append(used, key)
				if err := tt.fail(key, n); err != nil {
					return "", err
				}
				return "ok", nil
			}
			s, _ := newTestSummarizer(t, tt.keys, gen)

			got, err := s.summarize(context.Background(), "内容")
			if (err != nil) != tt.wantErr {
				t.Fatalf("summarize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != "ok" {
				t.Errorf("summarize() = %q, want ok", got)
			}
			if strings.Join(used, ",") != strings.Join(tt.wantKeys, ",") {
				t.Errorf("keys used = %v, want %v", used, tt.wantKeys)
			}
		})
	}
}

func TestSummarizeAllEmpty(t *testing.T) {
	s, dir := newTestSummarizer(t, []string{"k"}, nil)
	report, err := s.SummarizeAll(context.Background(), nil)
	if err != nil || len(report.Written) != 0 {
		t.Fatalf("SummarizeAll(nil) = %+v, %v", report, err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("output dir should not be created for no records")
	}
}
