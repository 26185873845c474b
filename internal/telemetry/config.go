// Package telemetry wires OpenTelemetry span tracking into the preprocess
// pipeline and query engine without shipping an OTLP collector dependency:
// the module's own `log` output is the trace sink.
package telemetry

import (
	"os"
	"strings"
)

// Config controls whether tracing runs at all and how spans are sampled
// and labeled. Loaded entirely from environment variables so it needs no
// entry in pkg/config's file-backed keys.
type Config struct {
	// Enabled toggles tracing. Loaded from H3ROUTE_TRACE_ENABLED.
	Enabled bool

	// ServiceName tags every span's resource. Loaded from
	// H3ROUTE_TRACE_SERVICE_NAME, defaults to "h3-routing-platform".
	ServiceName string

	// Sampler selects a sdk/trace sampler. Loaded from
	// H3ROUTE_TRACE_SAMPLER: always_on, always_off, or traceidratio.
	// Defaults to always_on.
	Sampler string

	// SamplerArg is the ratio argument for traceidratio. Loaded from
	// H3ROUTE_TRACE_SAMPLER_ARG.
	SamplerArg string
}

// LoadConfigFromEnv reads a Config from the process environment.
func LoadConfigFromEnv() *Config {
	return &Config{
		Enabled:     strings.ToLower(os.Getenv("H3ROUTE_TRACE_ENABLED")) == "true",
		ServiceName: getEnvOrDefault("H3ROUTE_TRACE_SERVICE_NAME", "h3-routing-platform"),
		Sampler:     getEnvOrDefault("H3ROUTE_TRACE_SAMPLER", "always_on"),
		SamplerArg:  os.Getenv("H3ROUTE_TRACE_SAMPLER_ARG"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
