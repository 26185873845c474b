package telemetry

import (
	"context"
	"log"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logExporter is a sdktrace.SpanExporter that writes completed spans
// through the standard log package instead of shipping them to an OTLP
// collector, so tracing has no network dependency of its own.
type logExporter struct{}

func newLogExporter() *logExporter { return &logExporter{} }

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		log.Printf("trace: span=%s trace=%s span_id=%s duration=%s attrs=%v",
			s.Name(), s.SpanContext().TraceID(), s.SpanContext().SpanID(),
			s.EndTime().Sub(s.StartTime()), s.Attributes())
	}
	return nil
}

func (e *logExporter) Shutdown(ctx context.Context) error { return nil }
