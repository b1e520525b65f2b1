// Package trace wraps the OpenTelemetry SDK behind a small package-level
// API. Spans go to stdout; the log layer stitches trace and span IDs into
// every record so console traces can be matched against JSON logs.
package trace

import (
	"context"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "nse-deal-tracker"
	serviceVersion = "1.0.0"
)

var active *provider

type provider struct {
	tracer trace.Tracer
	sdk    *sdktrace.TracerProvider
}

// Init sets up the global tracer provider. Tracing is on unless
// LOG_TRACING_ENABLED is set to a false value, in which case every other
// function in the package is a no-op.
func Init() error {
	if !tracingWanted() {
		return nil
	}

	p, err := newProvider(context.Background())
	if err != nil {
		return err
	}
	active = p
	return nil
}

func newProvider(ctx context.Context) (*provider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, err
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(sdk)
	return &provider{tracer: otel.Tracer(serviceName), sdk: sdk}, nil
}

// Shutdown flushes buffered spans.
func Shutdown(ctx context.Context) error {
	if active == nil {
		return nil
	}
	return active.sdk.Shutdown(ctx)
}

// Enabled reports whether Init turned tracing on.
func Enabled() bool {
	return active != nil
}

// StartSpan opens a span, or hands back the ambient one when tracing is off
// so callers never need their own enabled check.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if active == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return active.tracer.Start(ctx, name, opts...)
}

// GetTraceFields extracts the trace and span IDs for log correlation. ok is
// false outside a recorded span.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if active == nil {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func tracingWanted() bool {
	raw := os.Getenv("LOG_TRACING_ENABLED")
	if raw == "" {
		return true
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return on
}
