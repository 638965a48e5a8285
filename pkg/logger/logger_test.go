package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_CloseFlushesRecords(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{ServiceName: "product-service", Level: "info", Output: &buf})

	l.Info().Str("operation", "get").Msg("Fetching product")
	l.Debug().Msg("filtered out")
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "product-service", record["service"])
	assert.Equal(t, "get", record["operation"])
	assert.Equal(t, "Fetching product", record["message"])
	assert.Contains(t, record, "time")
}

func TestWithContext_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	WithContext(ctx, base).Info().Msg("traced")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
}

func TestWithContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	WithContext(context.Background(), zerolog.New(&buf)).Info().Msg("plain")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
