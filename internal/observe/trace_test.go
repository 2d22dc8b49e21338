package observe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracerProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(orig) })
	return tp, exp
}

func TestStartSpanAndEndSpan(t *testing.T) {
	_, exp := newTestTracerProvider(t)

	ctx, span := StartSpan(context.Background(), "processor.recognize")
	if !trace.SpanContextFromContext(ctx).HasTraceID() {
		t.Error("no trace ID inside a span")
	}
	EndSpan(span, errors.New("whisper exited 2"))

	_, ok := StartSpan(context.Background(), "processor.extract")
	EndSpan(ok, nil)

	spans := exp.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name != "processor.recognize" || spans[0].Status.Code != codes.Error {
		t.Errorf("first span = %s %v, want processor.recognize with error status", spans[0].Name, spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("error was not recorded as a span event")
	}
	if spans[1].Status.Code == codes.Error {
		t.Error("successful span has error status")
	}
}

func TestInitProviderServesMetrics(t *testing.T) {
	origMP := otel.GetMeterProvider()
	origTP := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetMeterProvider(origMP)
		otel.SetTracerProvider(origTP)
	})

	shutdown, err := InitProvider(context.Background(), ProviderConfig{ServiceName: "zh-transcribe-test"})
	if err != nil {
		t.Fatalf("InitProvider() error = %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown() error = %v", err)
		}
	}()

	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	m.RecordVideo(context.Background(), nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
}
