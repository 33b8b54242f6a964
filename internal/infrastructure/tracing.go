package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"interviewcheck/internal/config"
)

const (
	// ServiceName is the service.name resource attribute
	ServiceName = "interviewcheck"
	// TracerName is the instrumentation scope of every span the module opens
	TracerName = "interviewcheck"
)

// Tracing owns the tracer provider. A disabled Tracing hands out the global
// provider, which is a no-op unless something else installed one.
type Tracing struct {
	TracerProvider *sdktrace.TracerProvider
	Logger         *slog.Logger
}

// InitializeTracing builds the tracer provider described by cfg and installs it
// globally together with the W3C trace context propagator. out receives the
// stdout exporter's spans; nil means os.Stdout.
func InitializeTracing(cfg config.TracingConfig, serviceVersion string, out io.Writer, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracing{Logger: logger}

	if !cfg.Enabled || cfg.Exporter == "none" {
		logger.Debug("Tracing disabled",
			slog.Bool("enabled", cfg.Enabled),
			slog.String("exporter", cfg.Exporter))
		return t, nil
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "stdout":
		if out == nil {
			out = os.Stdout
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	t.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(cfg, serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(t.TracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		slog.String("exporter", cfg.Exporter),
		slog.Float64("sample_ratio", cfg.SampleRatio),
		slog.String("environment", cfg.Environment))
	return t, nil
}

func newResource(cfg config.TracingConfig, serviceVersion string) *resource.Resource {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(serviceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", fmt.Sprintf("%s-%d", hostname, os.Getpid())),
	)
}

// Provider returns the provider spans should come from
func (t *Tracing) Provider() trace.TracerProvider {
	if t == nil || t.TracerProvider == nil {
		return otel.GetTracerProvider()
	}
	return t.TracerProvider
}

// Shutdown flushes pending spans and stops the provider
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.TracerProvider == nil {
		return nil
	}
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	t.Logger.InfoContext(ctx, "Tracing shutdown complete")
	return nil
}

// Tracer returns the module tracer of the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// TraceIDFromContext returns the trace id of the span in ctx, or "" when
// there is no sampled span.
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError marks span failed with err. A nil err leaves it untouched.
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
