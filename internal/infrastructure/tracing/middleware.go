package tracing

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// Middleware opens a server span per request, continuing any W3C trace
// context sent by the caller.
func (t *Tracer) Middleware() gin.HandlerFunc {
	return otelgin.Middleware(t.service,
		otelgin.WithTracerProvider(t.provider),
		otelgin.WithPropagators(propagator),
	)
}

// RequestIDMiddleware assigns X-Request-ID, tags the request span with it
// and echoes the trace id. Mount it after Middleware.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		ctx := c.Request.Context()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String(RequestIDKey, requestID))
		if traceID := TraceID(ctx); traceID != "" {
			c.Header(HeaderTraceID, traceID)
		}

		c.Next()
	}
}

// RequestID returns the request id assigned by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
