package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Header names echoed on every response.
const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderRequestID = "X-Request-ID"
)

const (
	instrumentation = "github.com/GriffinCanCode/microshell"
	closeTimeout    = 5 * time.Second
)

var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Tracer owns the OpenTelemetry provider of the service. Finished spans are
// batched and written to the structured log.
type Tracer struct {
	service  string
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// New creates a tracer. Extra options are appended to the provider
// options, e.g. a span recorder in tests.
func New(service string, logger *zap.Logger, opts ...sdktrace.TracerProviderOption) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
		sdktrace.WithBatcher(&logExporter{logger: logger}),
	}
	provider := sdktrace.NewTracerProvider(append(base, opts...)...)

	return &Tracer{
		service:  service,
		provider: provider,
		tracer:   provider.Tracer(instrumentation),
	}
}

// Start begins a span as a child of the span carried by ctx. A nil Tracer
// hands out non-recording spans.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Flush exports every finished span
func (t *Tracer) Flush(ctx context.Context) error {
	return t.provider.ForceFlush(ctx)
}

// Close flushes pending spans and stops the provider
func (t *Tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return t.provider.Shutdown(ctx)
}

// End records err on span, if any, and ends it
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Inject writes the trace context carried by ctx into outbound headers
func Inject(ctx context.Context, h http.Header) {
	propagator.Inject(ctx, propagation.HeaderCarrier(h))
}

// Extract continues the trace carried by inbound headers
func Extract(ctx context.Context, h http.Header) context.Context {
	return propagator.Extract(ctx, propagation.HeaderCarrier(h))
}

// TraceID returns the hex trace id carried by ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// logExporter writes finished spans to zap
type logExporter struct {
	logger *zap.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		sc := span.SpanContext()
		fields := []zap.Field{
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
			zap.String("operation", span.Name()),
			zap.Duration("duration", span.EndTime().Sub(span.StartTime())),
		}
		if parent := span.Parent(); parent.IsValid() {
			fields = append(fields, zap.String("parent_id", parent.SpanID().String()))
		}
		for _, kv := range span.Attributes() {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}

		if status := span.Status(); status.Code == codes.Error {
			fields = append(fields, zap.String("error", status.Description))
			e.logger.Warn("span completed with error", fields...)
			continue
		}
		e.logger.Debug("span completed", fields...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
