// Package telemetry configures OpenTelemetry tracing for pipeline runs
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "gobioact"
	ServiceVersion = "1.0.0"
	TracerName     = "gobioact/pipeline"
)

// Config selects the span exporter
type Config struct {
	// Stdout writes finished spans as JSON to Writer (os.Stderr when nil)
	Stdout bool
	Writer io.Writer
}

// Provider owns the tracer provider and its exporter
type Provider struct {
	tp     *sdktrace.TracerProvider
	Tracer trace.Tracer
}

// Setup builds a tracer provider. Without an exporter spans are still created
// and sampled but never leave the process.
func Setup(cfg Config) (*Provider, error) {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(newResource())}

	if cfg.Stdout {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	return newProvider(sdktrace.NewTracerProvider(opts...)), nil
}

// NewWithExporter builds a provider that exports synchronously to exporter
func NewWithExporter(exporter sdktrace.SpanExporter) *Provider {
	return newProvider(sdktrace.NewTracerProvider(
		sdktrace.WithResource(newResource()),
		sdktrace.WithSyncer(exporter),
	))
}

func newProvider(tp *sdktrace.TracerProvider) *Provider {
	return &Provider{
		tp:     tp,
		Tracer: tp.Tracer(TracerName, trace.WithInstrumentationVersion(ServiceVersion)),
	}
}

func newResource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", ServiceVersion),
	)
}

// Shutdown flushes and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
