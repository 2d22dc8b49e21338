// Package observe holds the OpenTelemetry metrics and tracing used by the
// pipeline. Metrics are exported through the Prometheus bridge set up by
// InitProvider and scraped from /metrics.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/nguyentantai21042004/zh-transcribe"

// Stage names used as the "stage" attribute.
const (
	StageExtract   = "extract"
	StageRecognize = "recognize"
	StageAssemble  = "assemble"
	StageWrite     = "write"
	StageBurn      = "burn"
	StageSummarize = "summarize"
	StatusOK       = "ok"
	StatusFailed   = "failed"
)

// Metrics holds every instrument recorded by the pipeline.
type Metrics struct {
	// StageDuration tracks per-stage latency. Attributes: stage, status.
	StageDuration metric.Float64Histogram

	// Videos counts processed videos. Attribute: status.
	Videos metric.Int64Counter

	// Segments counts recognizer segments fed to the assemblers.
	Segments metric.Int64Counter

	// DroppedSegments counts segments dropped locally. Attribute: reason.
	DroppedSegments metric.Int64Counter

	Paragraphs metric.Int64Counter
	Cues       metric.Int64Counter

	// Summaries counts summarizer calls. Attribute: status.
	Summaries metric.Int64Counter

	// ActiveVideos is the number of videos currently in flight.
	ActiveVideos metric.Int64UpDownCounter
}

// Recognition and encoding of a lecture take minutes, not milliseconds.
var stageBuckets = []float64{
	0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("zh_transcribe.stage.duration",
		metric.WithDescription("Latency of a pipeline stage for one video."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Videos, err = m.Int64Counter("zh_transcribe.videos",
		metric.WithDescription("Videos processed by status."),
	); err != nil {
		return nil, err
	}
	if met.Segments, err = m.Int64Counter("zh_transcribe.segments",
		metric.WithDescription("Recognized segments received."),
	); err != nil {
		return nil, err
	}
	if met.DroppedSegments, err = m.Int64Counter("zh_transcribe.segments.dropped",
		metric.WithDescription("Segments dropped by reason."),
	); err != nil {
		return nil, err
	}
	if met.Paragraphs, err = m.Int64Counter("zh_transcribe.paragraphs",
		metric.WithDescription("Prose paragraphs produced."),
	); err != nil {
		return nil, err
	}
	if met.Cues, err = m.Int64Counter("zh_transcribe.cues",
		metric.WithDescription("Subtitle cues produced."),
	); err != nil {
		return nil, err
	}
	if met.Summaries, err = m.Int64Counter("zh_transcribe.summaries",
		metric.WithDescription("Summary requests by status."),
	); err != nil {
		return nil, err
	}
	if met.ActiveVideos, err = m.Int64UpDownCounter("zh_transcribe.active_videos",
		metric.WithDescription("Videos currently being processed."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built on the global
// meter provider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func status(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusOK
}

// RecordStage records the time since start for stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, start time.Time, err error) {
	m.StageDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status(err)),
		),
	)
}

// RecordVideo counts one finished video.
func (m *Metrics) RecordVideo(ctx context.Context, err error) {
	m.Videos.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status(err))))
}

// RecordAssembly records the sizes of one assembled transcript.
func (m *Metrics) RecordAssembly(ctx context.Context, segments, paragraphs, cues int, dropped map[string]int) {
	m.Segments.Add(ctx, int64(segments))
	m.Paragraphs.Add(ctx, int64(paragraphs))
	m.Cues.Add(ctx, int64(cues))
	for reason, n := range dropped {
		m.DroppedSegments.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// RecordSummary counts one summarizer call.
func (m *Metrics) RecordSummary(ctx context.Context, err error) {
	m.Summaries.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status(err))))
}
