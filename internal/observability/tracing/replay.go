package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const replayTracerName = "github.com/arenakit/match-replay-service/internal/service/replay"

func ReplayTracer() trace.Tracer {
	return otel.Tracer(replayTracerName)
}

func StartMatchStartSpan(ctx context.Context, matchID string, participants int) (context.Context, trace.Span) {
	return ReplayTracer().Start(ctx, "replay.match_start",
		trace.WithAttributes(
			attribute.String("match_id", matchID),
			attribute.Int("participant_count", participants),
		),
	)
}

func StartMatchEndSpan(ctx context.Context, matchID, reason string) (context.Context, trace.Span) {
	return ReplayTracer().Start(ctx, "replay.match_end",
		trace.WithAttributes(
			attribute.String("match_id", matchID),
			attribute.String("end_reason", reason),
		),
	)
}

func StartBackendCallSpan(ctx context.Context, operation, recordingID string) (context.Context, trace.Span) {
	return ReplayTracer().Start(ctx, "replay.backend."+operation,
		trace.WithAttributes(
			attribute.String("recording_id", recordingID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordLifecycleOutcome(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the current trace context onto an
// outbound request to the replay backend.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
