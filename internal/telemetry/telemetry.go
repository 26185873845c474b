package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes and stops the tracer provider installed by Init.
type ShutdownFunc func(context.Context) error

var (
	mu      sync.Mutex
	tracer  trace.Tracer
	enabled bool
)

// Init installs a sdktrace.TracerProvider using cfg, or a no-op tracer
// when cfg.Enabled is false. It returns a ShutdownFunc the caller must
// invoke before the process exits.
func Init(ctx context.Context, cfg *Config) (ShutdownFunc, error) {
	mu.Lock()
	defer mu.Unlock()

	if cfg == nil || !cfg.Enabled {
		enabled = false
		tracer = otel.Tracer("h3-routing-platform")
		return func(context.Context) error { return nil }, nil
	}

	res, err := buildResource(cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(newLogExporter()),
		sdktrace.WithSampler(createSampler(cfg)),
	)

	otel.SetTracerProvider(tp)
	enabled = true
	tracer = tp.Tracer("h3-routing-platform")

	return tp.Shutdown, nil
}

// Enabled reports whether Init installed a real tracer provider.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// StartPhase opens a span for one contraction-pipeline phase.
func StartPhase(ctx context.Context, phase string) (context.Context, trace.Span) {
	return currentTracer().Start(ctx, "phase:"+phase)
}

// StartQuery opens a span for one query-engine call, tagged with the
// dispatched algorithm name.
func StartQuery(ctx context.Context, algorithm string) (context.Context, trace.Span) {
	return currentTracer().Start(ctx, "query:"+algorithm)
}

func currentTracer() trace.Tracer {
	mu.Lock()
	defer mu.Unlock()
	if tracer == nil {
		return otel.Tracer("h3-routing-platform")
	}
	return tracer
}
