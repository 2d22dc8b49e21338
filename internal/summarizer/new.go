package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/writer"
)

type implSummarizer struct {
	cfg        config.GeminiConfig
	style      writer.Style
	generate   GenerateFunc
	currentKey int
	backoff    time.Duration
	now        func() time.Time
	logger     logger.Logger
	metrics    *observe.Metrics
}

// New creates a Summarizer that rotates through the configured Gemini API keys.
// A nil metrics records to the global meter provider.
func New(cfg config.GeminiConfig, style writer.Style, log logger.Logger, metrics *observe.Metrics) Summarizer {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &implSummarizer{
		cfg:      cfg,
		style:    style,
		generate: geminiGenerate,
		backoff:  2 * time.Second,
		now:      time.Now,
		logger:   log,
		metrics:  metrics,
	}
}
