package domain

import (
	"context"
	"time"
)

// Lifecycle phases recorded by the audit sink.
const (
	AuditPhaseStarted   = "started"
	AuditPhaseSaved     = "saved"
	AuditPhaseDiscarded = "discarded"
	AuditPhaseSkipped   = "skipped"
)

// ReplayAuditEvent is one lifecycle transition written to the audit sink.
type ReplayAuditEvent struct {
	RecordingID     string
	MatchID         string
	Phase           string
	Reason          string
	Participants    int
	DurationSeconds float64
	At              time.Time
}

// ReplayAuditRecorder persists lifecycle transitions for offline analysis.
// Auxiliary: failures are logged and never surfaced to the lifecycle path.
type ReplayAuditRecorder interface {
	RecordLifecycle(ctx context.Context, ev ReplayAuditEvent) error
	Flush(ctx context.Context) error
	Close() error
}
