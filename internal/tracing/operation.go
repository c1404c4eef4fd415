package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartOperation opens a span named clinic.<op> carrying the entity and id
// being acted on. A nil tracer yields a non-recording span.
func StartOperation(ctx context.Context, tracer trace.Tracer, op, entity, id string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrOperation, op),
		attribute.String(AttrEntity, entity),
	}
	if id != "" {
		attrs = append(attrs, attribute.String(AttrEntityID, id))
	}
	return tracer.Start(ctx, SpanPrefixClinic+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndOperation records the outcome on span and ends it. kind is the error
// category name used as the error.kind attribute.
func EndOperation(span trace.Span, err error, kind string) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(
			attribute.String(AttrErrorKind, kind),
			attribute.String(AttrErrorMessage, err.Error()),
		)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// TraceIDFromContext returns the trace id of the span in ctx, or an empty
// string when there is no recording span.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
