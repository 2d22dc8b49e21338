package recognizer

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/pkg/executor"
)

type implCLI struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

type implServer struct {
	cfg        config.WhisperConfig
	httpClient *http.Client
	logger     logger.Logger
}

// New picks the backend named by cfg.Backend.
func New(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) (Recognizer, error) {
	switch cfg.Backend {
	case config.BackendCLI, "":
		return NewCLI(cfg, exec, log), nil
	case config.BackendServer:
		return NewServer(cfg, &http.Client{Timeout: 60 * time.Minute}, log)
	default:
		return nil, fmt.Errorf("unknown whisper backend %q", cfg.Backend)
	}
}

// NewCLI runs the whisper.cpp binary through exec.
func NewCLI(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Recognizer {
	return &implCLI{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// NewServer posts audio to a whisper.cpp server.
func NewServer(cfg config.WhisperConfig, client *http.Client, log logger.Logger) (Recognizer, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("whisper server url must not be empty")
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if client == nil {
		client = http.DefaultClient
	}
	return &implServer{
		cfg:        cfg,
		httpClient: client,
		logger:     log,
	}, nil
}
