/*
Package tracing provides request tracing on OpenTelemetry.

A Tracer owns an sdk TracerProvider whose finished spans are batched and
written to the structured log ("span completed" at debug, "span completed
with error" at warn). Gin requests get a server span from otelgin; handlers
open child spans for navigations, reloads and probes.

# Usage

	tracer := tracing.New("microshell", logger)
	defer tracer.Close()

	router.Use(tracer.Middleware(), tracing.RequestIDMiddleware())

	ctx, span := tracer.Start(ctx, "shell.navigate", attribute.String("to", to))
	tr, err := sh.Navigate(from, to)
	tracing.End(span, err)

# Propagation

Incoming W3C traceparent headers continue an existing trace; outbound
entry probes carry it forward with Inject. Every response gets an
X-Request-ID and the X-Trace-ID of its span.
*/
package tracing
