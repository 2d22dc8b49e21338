package recognizer

import (
	"context"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// Recognizer turns a 16 kHz mono WAV file into timestamped segments in
// recognizer order.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) ([]transcript.Segment, error)
}
