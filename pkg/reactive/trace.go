package reactive

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the engine.
const defaultTracerName = "ripple"

// TraceConfig configures OpenTelemetry tracing of flush passes.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "ripple").
	TracerName string

	tracer trace.Tracer
}

// TraceOption configures the OpenTelemetry instrumentation.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

var traceState atomic.Pointer[TraceConfig]

// EnableTracing starts emitting one span per scheduler flush pass, carrying
// the number of jobs executed. Uses the globally-registered otel tracer
// provider.
func EnableTracing(opts ...TraceOption) {
	cfg := &TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)
	traceState.Store(cfg)
}

// DisableTracing stops emitting flush spans.
func DisableTracing() {
	traceState.Store(nil)
}

func startFlushSpan() trace.Span {
	cfg := traceState.Load()
	if cfg == nil {
		return nil
	}
	_, span := cfg.tracer.Start(context.Background(), "ripple.flush")
	return span
}

func endFlushSpan(span trace.Span, jobsRun int) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("ripple.jobs_run", jobsRun))
	span.End()
}
