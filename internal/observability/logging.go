package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

func HandlerWithSpanContext(handler slog.Handler) *SpanContextLogHandler {
	return &SpanContextLogHandler{Handler: handler}
}

// SpanContextLogHandler stamps trace and span ids onto records logged inside a span.
type SpanContextLogHandler struct {
	slog.Handler
}

func (h *SpanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", s.TraceID().String()),
			slog.String("span_id", s.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *SpanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SpanContextLogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *SpanContextLogHandler) WithGroup(name string) slog.Handler {
	return &SpanContextLogHandler{Handler: h.Handler.WithGroup(name)}
}
