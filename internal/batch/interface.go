package batch

import (
	"context"

	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// Runner processes every video under a directory tree.
type Runner interface {
	Run(ctx context.Context, root string) (Report, error)
}

// Failure is a video that could not be processed.
type Failure struct {
	VideoPath string
	Err       error
}

// Report is the outcome of a batch, in discovery order.
type Report struct {
	Succeeded []processor.Output
	Failed    []Failure
}

// Records returns the summary input of every successful video.
func (r Report) Records() []transcript.Record {
	records := make([]transcript.Record, 0, len(r.Succeeded))
	for _, o := range r.Succeeded {
		records = append(records, o.Result.Record(o.VideoID))
	}
	return records
}
