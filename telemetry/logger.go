package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new logger with OTEL hooks
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// NewConsoleLogger creates a logger with the same OTEL hooks but a
// human readable console writer, for interactive CLI use.
func NewConsoleLogger(service string, out io.Writer, level zerolog.Level) *Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out}).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// WithContext returns a logger with context (for trace propagation)
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// Convenience methods for snapshot runs

func (l *Logger) LogRunStart(ctx context.Context, snapshot string, devices int) {
	l.WithContext(ctx).Info().
		Str("snapshot", snapshot).
		Int("devices", devices).
		Str("operation", "collect").
		Msg("starting snapshot run")
}

func (l *Logger) LogRunComplete(ctx context.Context, snapshot string, totalErrors int, duration float64) {
	l.WithContext(ctx).Info().
		Str("snapshot", snapshot).
		Int("total_errors", totalErrors).
		Float64("duration_s", duration).
		Str("operation", "collect").
		Msg("snapshot run completed")
}

func (l *Logger) LogCollection(ctx context.Context, key string, metrics int, errors int) {
	l.WithContext(ctx).Info().
		Str("collection", key).
		Int("metrics", metrics).
		Int("errors", errors).
		Msg("collection finished")
}

func (l *Logger) LogCollectionError(ctx context.Context, key string, err error) {
	l.WithContext(ctx).Error().
		Err(err).
		Str("collection", key).
		Msg("collection failed")
}

func (l *Logger) LogComparison(ctx context.Context, baseline, current string, changes bool) {
	l.WithContext(ctx).Info().
		Str("baseline", baseline).
		Str("current", current).
		Bool("changes", changes).
		Str("operation", "compare").
		Msg("comparison generated")
}
