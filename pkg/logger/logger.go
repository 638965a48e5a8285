package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"go.opentelemetry.io/otel/trace"
)

// Config describes how the process logger is built
type Config struct {
	ServiceName string
	Level       string
	Development bool
	// Output defaults to stdout.
	Output io.Writer
}

// Logger is the process log pipeline. Close must be called before exit so
// buffered records reach the output.
type Logger struct {
	zerolog.Logger
	writer diode.Writer
}

// New initializes a logger with the given configuration
func New(cfg Config) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}

	if cfg.Development {
		// Pretty print for development
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.Output != nil,
		}
	}

	// The diode closes its target on Close; hide Close so stdout survives.
	w := diode.NewWriter(struct{ io.Writer }{out}, 1000, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	return &Logger{
		Logger: zerolog.New(w).
			Level(ParseLevel(cfg.Level)).
			With().
			Timestamp().
			Str("service", cfg.ServiceName).
			Logger(),
		writer: w,
	}
}

// Close flushes pending records
func (l *Logger) Close() error {
	return l.writer.Close()
}

// WithContext returns a logger with trace information from context
func WithContext(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	logger := base

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}

// ParseLevel maps a configured level name to a zerolog level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
