// Package tracing wires OpenTelemetry spans through the HTTP layer so
// a slow send can be traced from the API request down to the Telegram
// call.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("resto-notify")

// GetTracer returns the tracer used for all spans in this service.
//
// Example:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "telegram.send")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
