package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("fpl-pulse/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

const (
	attrLeagueID = attribute.Key("fpl.league_id")
	attrEntryID  = attribute.Key("fpl.entry_id")
	attrSource   = attribute.Key("fpl.source")
)

// startSpan only opens handler spans, and only under an existing request span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// failSpan marks span as failed when err maps to a 5xx. Client errors and
// cancellations leave the status unset.
func failSpan(ctx context.Context, span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	if mapError(ctx, err).HTTPStatus < http.StatusInternalServerError {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
