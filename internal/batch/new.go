package batch

import (
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
)

type implRunner struct {
	processor     processor.Processor
	logger        logger.Logger
	maxConcurrent int
}

// New creates a Runner that processes up to maxConcurrent videos at once.
func New(proc processor.Processor, log logger.Logger, maxConcurrent int) Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implRunner{
		processor:     proc,
		logger:        log,
		maxConcurrent: maxConcurrent,
	}
}
