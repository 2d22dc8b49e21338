package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

type fakeProcessor struct {
	mu        sync.Mutex
	seen      []string
	active    atomic.Int32
	maxActive atomic.Int32
}

func (f *fakeProcessor) Process(ctx context.Context, videoPath string) (processor.Output, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.seen = append(f.seen, videoPath)
	f.mu.Unlock()

	if strings.Contains(videoPath, "broken") {
		return processor.Output{}, errors.New("ffmpeg: invalid data found when processing input")
	}
	id := processor.VideoID(videoPath)
	return processor.Output{
		VideoID: id,
		Result: transcript.Result{
			Paragraphs: []transcript.Paragraph{{Text: id + "正文"}},
			Cues:       []transcript.Cue{{Index: 1, StartMs: 0, EndMs: 1000, Lines: []string{id + "字幕"}}},
		},
	}, nil
}

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		path := filepath.Join(root, n)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"b.mp4",
		"a.MOV",
		"week1/c.mkv",
		"week1/notes.txt",
		".cache/hidden.mp4",
		"subs.srt",
	)

	got, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "a.MOV"),
		filepath.Join(root, "b.mp4"),
		filepath.Join(root, "week1", "c.mkv"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "input_videos")
	got, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Discover() = %v, want none", got)
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		t.Errorf("root not created: %v", err)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "01.mp4", "02-broken.mp4", "03.mkv", "sub/01.avi", "04.webm")

	proc := &fakeProcessor{}
	report, err := New(proc, logger.Nop(), 2).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var ok []string
	for _, o := range report.Succeeded {
		ok = append(ok, o.VideoID)
	}
	if want := []string{"01", "03", "04"}; !reflect.DeepEqual(ok, want) {
		t.Errorf("succeeded = %v, want %v", ok, want)
	}

	if len(report.Failed) != 2 {
		t.Fatalf("failed = %+v, want 2", report.Failed)
	}
	if filepath.Base(report.Failed[0].VideoPath) != "02-broken.mp4" {
		t.Errorf("first failure = %s", report.Failed[0].VideoPath)
	}
	if !errors.Is(report.Failed[1].Err, ErrDuplicateName) {
		t.Errorf("second failure error = %v, want ErrDuplicateName", report.Failed[1].Err)
	}

	if got := proc.maxActive.Load(); got > 2 {
		t.Errorf("max concurrent = %d, want <= 2", got)
	}
	if len(proc.seen) != 4 {
		t.Errorf("processed %d videos, want 4", len(proc.seen))
	}

	records := report.Records()
	if len(records) != 3 {
		t.Fatalf("Records() = %d, want 3", len(records))
	}
	want := transcript.Record{VideoID: "01", ProseText: "01正文", SubtitleText: "01字幕"}
	if records[0] != want {
		t.Errorf("Records()[0] = %+v, want %+v", records[0], want)
	}
}

func TestRunEmpty(t *testing.T) {
	report, err := New(&fakeProcessor{}, logger.Nop(), 0).Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Succeeded)+len(report.Failed) != 0 {
		t.Errorf("Run() on empty dir = %+v", report)
	}
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.mp4", "b.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := &fakeProcessor{}
	report, err := New(proc, logger.Nop(), 1).Run(ctx, root)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(proc.seen) != 0 {
		t.Errorf("processed %v after cancel", proc.seen)
	}
	if len(report.Failed) != 2 {
		t.Errorf("failed = %d, want 2", len(report.Failed))
	}
}
