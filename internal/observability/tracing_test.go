package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := StartAPISpan(context.Background(), "fetch_posts", "GET", "http://upstream/posts")
	assert.False(t, span.SpanContext().IsSampled())
	EndSpan(span, nil)
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "zipkin"})
	assert.ErrorContains(t, err, `unknown exporter "zipkin"`)
}

func TestInitTracing_StdoutSamplesViewSpans(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		Tracer = otel.Tracer(DefaultServiceName)
	})

	shutdown, err := InitTracing(TracingConfig{
		Enabled:      true,
		Exporter:     "stdout",
		Environment:  "test",
		SamplerRatio: 1,
	})
	require.NoError(t, err)

	_, span := StartViewSpan(context.Background(), "feed", "refresh")
	assert.True(t, span.SpanContext().IsSampled())
	EndSpan(span, nil)

	require.NoError(t, shutdown(context.Background()))
}

func TestRatioSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", ratioSampler(1).Description())
	assert.Contains(t, ratioSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, ratioSampler(0.2).Description(), "TraceIDRatioBased{0.2}")
}
