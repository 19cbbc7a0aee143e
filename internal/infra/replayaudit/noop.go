package replayaudit

import (
	"context"

	"github.com/arenakit/match-replay-service/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ReplayAuditRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordLifecycle(_ context.Context, _ domain.ReplayAuditEvent) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
