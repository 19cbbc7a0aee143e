//go:build gcloud

package replayaudit

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/arenakit/match-replay-service/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt      time.Time `bigquery:"recorded_at"`
	RecordingID     string    `bigquery:"recording_id"`
	MatchID         string    `bigquery:"match_id"`
	Phase           string    `bigquery:"phase"`
	Reason          string    `bigquery:"reason"`
	Participants    int64     `bigquery:"participants"`
	DurationSeconds float64   `bigquery:"duration_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReplayAuditRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "replay audit recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, replay audit recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, replay audit recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "replay audit recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordLifecycle(ctx context.Context, ev domain.ReplayAuditEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	record := &bigQueryRecord{
		RecordedAt:      at,
		RecordingID:     ev.RecordingID,
		MatchID:         ev.MatchID,
		Phase:           ev.Phase,
		Reason:          ev.Reason,
		Participants:    int64(ev.Participants),
		DurationSeconds: ev.DurationSeconds,
	}

	if err := r.inserter.Put(ctx, []*bigQueryRecord{record}); err != nil {
		slog.WarnContext(ctx, "failed to insert replay lifecycle event to BigQuery",
			slog.String("error", err.Error()),
			slog.String("phase", ev.Phase),
			slog.String("match_id", ev.MatchID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	return r.client.Close()
}
