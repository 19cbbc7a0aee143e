//go:build !gcloud

package replayaudit

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/arenakit/match-replay-service/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReplayAuditRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "replay audit recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, replay audit recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "replay audit recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordLifecycle(ctx context.Context, ev domain.ReplayAuditEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	point := influxdb2.NewPoint(
		"replay_lifecycle",
		map[string]string{
			"phase":  ev.Phase,
			"reason": ev.Reason,
		},
		map[string]any{
			"recording_id":     ev.RecordingID,
			"match_id":         ev.MatchID,
			"participants":     ev.Participants,
			"duration_seconds": ev.DurationSeconds,
		},
		at,
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write replay lifecycle event to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("phase", ev.Phase),
			slog.String("match_id", ev.MatchID),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	r.client.Close()
	return nil
}
