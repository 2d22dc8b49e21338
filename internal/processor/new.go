package processor

import (
	"fmt"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/recognizer"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
	"github.com/nguyentantai21042004/zh-transcribe/internal/writer"
	"github.com/nguyentantai21042004/zh-transcribe/pkg/executor"
)

type implProcessor struct {
	cfg        *config.Config
	executor   executor.Executor
	recognizer recognizer.Recognizer
	pipeline   *transcript.Pipeline
	writers    []writer.Writer
	logger     logger.Logger
	metrics    *observe.Metrics
}

// New creates a Processor. A nil metrics uses observe.DefaultMetrics.
func New(cfg *config.Config, exec executor.Executor, rec recognizer.Recognizer, log logger.Logger, metrics *observe.Metrics) (Processor, error) {
	pipeline, err := transcript.NewPipeline(cfg.Transcript.Options())
	if err != nil {
		return nil, err
	}

	style := writer.Style{Font: cfg.Output.Font, FontSize: uint64(cfg.Output.FontSize)}
	writers := make([]writer.Writer, 0, len(cfg.Output.Formats))
	for _, f := range cfg.Output.Formats {
		w, err := writer.New(f, style)
		if err != nil {
			return nil, fmt.Errorf("output writer: %w", err)
		}
		writers = append(writers, w)
	}

	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	return &implProcessor{
		cfg:        cfg,
		executor:   exec,
		recognizer: rec,
		pipeline:   pipeline,
		writers:    writers,
		logger:     log,
		metrics:    metrics,
	}, nil
}
