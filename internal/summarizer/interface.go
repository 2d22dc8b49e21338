package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// Summarizer turns aggregate transcript records into LLM-generated markdown
// summaries, one .md and one .docx per video plus an index.
type Summarizer interface {
	SummarizeAll(ctx context.Context, records []transcript.Record) (Report, error)
}

// Report lists the summary files written and the videos that failed.
type Report struct {
	Written []string
	Failed  map[string]error
}

// GenerateFunc sends prompt to model using apiKey and returns the reply text.
type GenerateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)
