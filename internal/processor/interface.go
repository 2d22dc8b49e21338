package processor

import (
	"context"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// Processor turns one video into prose and subtitle files.
type Processor interface {
	Process(ctx context.Context, videoPath string) (Output, error)
}

// Output describes what was produced for one video.
type Output struct {
	VideoID string
	Dir     string
	Files   []string
	// Burned is the subtitled video, empty unless burn-in is enabled.
	Burned string
	Result transcript.Result
}
