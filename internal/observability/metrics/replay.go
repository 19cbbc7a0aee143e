package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	replayMeterName = "replay.service"
)

// Skip reasons attached to replay_recordings_skipped_total.
const (
	SkipReasonUnavailable = "backend_unavailable"
	SkipReasonNoAnchor    = "no_anchor"
	SkipReasonRejected    = "backend_rejected"
	SkipReasonDoubleStart = "double_start"
)

type ReplayMetrics struct {
	recordingsStarted   metric.Int64Counter
	recordingsSaved     metric.Int64Counter
	recordingsDiscarded metric.Int64Counter
	recordingsSkipped   metric.Int64Counter
	recordingDuration   metric.Float64Histogram
}

func NewReplayMetrics() (*ReplayMetrics, error) {
	meter := otel.Meter(replayMeterName)

	recordingsStarted, err := meter.Int64Counter(
		"replay_recordings_started_total",
		metric.WithDescription("Total number of recordings started"),
		metric.WithUnit("{recording}"),
	)
	if err != nil {
		return nil, err
	}

	recordingsSaved, err := meter.Int64Counter(
		"replay_recordings_saved_total",
		metric.WithDescription("Total number of recordings stopped with a save"),
		metric.WithUnit("{recording}"),
	)
	if err != nil {
		return nil, err
	}

	recordingsDiscarded, err := meter.Int64Counter(
		"replay_recordings_discarded_total",
		metric.WithDescription("Total number of recordings stopped and discarded"),
		metric.WithUnit("{recording}"),
	)
	if err != nil {
		return nil, err
	}

	recordingsSkipped, err := meter.Int64Counter(
		"replay_recordings_skipped_total",
		metric.WithDescription("Match starts that never entered recording"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, err
	}

	recordingDuration, err := meter.Float64Histogram(
		"replay_recording_duration_seconds",
		metric.WithDescription("Duration of saved recordings"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			10, 30, 60, 120, 300, 600, 1200, 1800, 3600,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReplayMetrics{
		recordingsStarted:   recordingsStarted,
		recordingsSaved:     recordingsSaved,
		recordingsDiscarded: recordingsDiscarded,
		recordingsSkipped:   recordingsSkipped,
		recordingDuration:   recordingDuration,
	}, nil
}

func (m *ReplayMetrics) RecordRecordingStarted(ctx context.Context) {
	m.recordingsStarted.Add(ctx, 1)
}

func (m *ReplayMetrics) RecordRecordingSaved(ctx context.Context, reason string, duration time.Duration) {
	m.recordingsSaved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("end_reason", reason),
	))
	m.recordingDuration.Record(ctx, duration.Seconds())
}

func (m *ReplayMetrics) RecordRecordingDiscarded(ctx context.Context, reason string) {
	m.recordingsDiscarded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("end_reason", reason),
	))
}

func (m *ReplayMetrics) RecordRecordingSkipped(ctx context.Context, reason string) {
	m.recordingsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
