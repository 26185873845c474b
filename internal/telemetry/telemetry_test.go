package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitDisabledIsNoOp(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Enabled() {
		t.Error("expected Enabled to report false when tracing is disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestInitEnabledInstallsTracerProvider(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{
		Enabled:     true,
		ServiceName: "test-service",
		Sampler:     "always_on",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Enabled() {
		t.Error("expected Enabled to report true after an enabled Init")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestStartPhaseAndStartQueryProduceSpans(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{Enabled: true, ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(context.Background())

	_, span := StartPhase(context.Background(), "phase1")
	if span == nil {
		t.Fatal("expected a non-nil span from StartPhase")
	}
	span.End()

	_, qspan := StartQuery(context.Background(), "classic")
	if qspan == nil {
		t.Fatal("expected a non-nil span from StartQuery")
	}
	qspan.End()
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()
	if cfg.ServiceName != "h3-routing-platform" {
		t.Errorf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.Sampler != "always_on" {
		t.Errorf("expected default sampler always_on, got %q", cfg.Sampler)
	}
}

func TestCreateSamplerDefaultsToAlwaysOn(t *testing.T) {
	s := createSampler(&Config{Sampler: "unknown"})
	if s == nil {
		t.Fatal("expected a non-nil sampler")
	}
	if got, want := s.Description(), sdktrace.AlwaysSample().Description(); got != want {
		t.Errorf("expected sampler %q, got %q", want, got)
	}
}

func TestParseRatioClampsOutOfRangeValues(t *testing.T) {
	if got := parseRatio("2.5"); got != 1.0 {
		t.Errorf("expected ratio clamped to 1.0, got %v", got)
	}
	if got := parseRatio("-1"); got != 0 {
		t.Errorf("expected ratio clamped to 0, got %v", got)
	}
	if got := parseRatio("not-a-number"); got != 1.0 {
		t.Errorf("expected fallback ratio of 1.0, got %v", got)
	}
}
