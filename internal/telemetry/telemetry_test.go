package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := Setup(Config{Stdout: true, Writer: &buf})
	require.NoError(t, err)

	_, span := p.Tracer.Start(context.Background(), "stage.preprocess")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "stage.preprocess")
}

func TestSetup_NoExporter(t *testing.T) {
	p, err := Setup(Config{})
	require.NoError(t, err)
	_, span := p.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewWithExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	p := NewWithExporter(exporter)

	_, span := p.Tracer.Start(context.Background(), "pipeline.run")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "pipeline.run", spans[0].Name)
}
