package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/zh-transcribe/internal/batch"
	"github.com/nguyentantai21042004/zh-transcribe/internal/config"
	"github.com/nguyentantai21042004/zh-transcribe/internal/logger"
	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/processor"
	"github.com/nguyentantai21042004/zh-transcribe/internal/recognizer"
	"github.com/nguyentantai21042004/zh-transcribe/internal/summarizer"
	"github.com/nguyentantai21042004/zh-transcribe/internal/watcher"
	"github.com/nguyentantai21042004/zh-transcribe/internal/writer"
	"github.com/nguyentantai21042004/zh-transcribe/pkg/executor"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	mode := flag.String("mode", "batch", "batch: process every video under paths.input once; watch: process new videos as they appear")
	flag.Parse()

	if err := run(*configPath, *mode); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mode string) error {
	if mode != "batch" && mode != "watch" {
		return fmt.Errorf("unknown mode %q", mode)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "zh-transcribe %s (%s/%s, %d CPUs)", version, runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Whisper backend: %s, max concurrent: %d", cfg.Whisper.Backend, cfg.Performance.MaxConcurrent)

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Metrics.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn(sctx, "Telemetry shutdown: %v", err)
		}
	}()

	if cfg.Metrics.Listen != "" {
		srv := observe.NewMetricsServer(cfg.Metrics.Listen)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "Metrics server: %v", err)
			}
		}()
		defer srv.Close()
		log.Info(ctx, "Serving metrics on %s/metrics", cfg.Metrics.Listen)
	}

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	exec := executor.New()
	if err := processor.CheckTools(ctx, exec, cfg); err != nil {
		return err
	}

	rec, err := recognizer.New(cfg.Whisper, exec, log)
	if err != nil {
		return fmt.Errorf("create recognizer: %w", err)
	}
	proc, err := processor.New(cfg, exec, rec, log, nil)
	if err != nil {
		return fmt.Errorf("create processor: %w", err)
	}

	if mode == "watch" {
		return watch(ctx, cfg, proc, log)
	}
	return runBatch(ctx, cfg, proc, log)
}

func runBatch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	report, err := batch.New(proc, log, cfg.Performance.MaxConcurrent).Run(ctx, cfg.Paths.Input)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info(ctx, "Processing complete: %d succeeded, %d failed", len(report.Succeeded), len(report.Failed))
	for _, f := range report.Failed {
		log.Error(ctx, "  %s: %v", f.VideoPath, f.Err)
	}

	if cfg.Gemini.Enabled() && ctx.Err() == nil {
		style := writer.Style{Font: cfg.Output.Font, FontSize: uint64(cfg.Output.FontSize)}
		sum := summarizer.New(cfg.Gemini, style, log, nil)
		if _, err := sum.SummarizeAll(ctx, report.Records()); err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d videos failed", len(report.Failed), len(report.Failed)+len(report.Succeeded))
	}
	return nil
}

func watch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	handler := func(ctx context.Context, path string) error {
		out, err := proc.Process(ctx, path)
		if err != nil {
			return err
		}
		log.Info(ctx, "Wrote %d files to %s", len(out.Files), out.Dir)
		return nil
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent, watcher.DefaultSettle)
	if err != nil {
		return err
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring %s, output to %s. Press Ctrl+C to stop", cfg.Paths.Input, cfg.Paths.Output)
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher: %w", err)
	}
	log.Info(context.Background(), "Pipeline stopped")
	return nil
}

// ensureDirectories creates the input, output and temp dirs.
func ensureDirectories(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
