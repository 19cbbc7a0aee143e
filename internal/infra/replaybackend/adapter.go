package replaybackend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/observability/tracing"
)

// Adapter guards every crossing into the external backend. Binding is
// resolved once at startup; a failed bind leaves the adapter as a
// permanent no-op. No error escapes past this boundary.
type Adapter struct {
	backend Backend
	bound   atomic.Bool

	unavailableOnce sync.Once
}

// NewAdapter wraps a backend. A nil backend (capability not present in
// this deployment) yields an adapter that never binds.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Initialize probes the backend once. Failure is terminal for the process
// lifetime; rebinding is not attempted.
func (a *Adapter) Initialize(ctx context.Context) bool {
	if a.backend == nil {
		slog.InfoContext(ctx, "replay backend not configured, recording capability disabled")
		return false
	}

	status, err := a.backend.Status(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to bind replay backend, recording capability disabled",
			slog.String("error", err.Error()),
		)
		return false
	}

	a.bound.Store(true)
	slog.InfoContext(ctx, "replay backend bound",
		slog.Bool("enabled", status.Enabled),
		slog.String("backend_version", status.Version),
	)
	return true
}

// IsAvailable re-checks the backend's own enabled flag on every call; the
// backend can degrade independently of the bind.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if !a.bound.Load() {
		a.unavailableOnce.Do(func() {
			slog.InfoContext(ctx, "replay backend unavailable, recording requests will be skipped")
		})
		return false
	}

	status, err := a.backend.Status(ctx)
	if err != nil {
		slog.DebugContext(ctx, "replay backend status check failed",
			slog.String("error", err.Error()),
		)
		return false
	}
	return status.Enabled
}

// StartRecording requests a capture centered on anchor. maxDurationSeconds
// of 0 means unlimited.
func (a *Adapter) StartRecording(ctx context.Context, recordingID string, anchor domain.SpatialPoint, maxDurationSeconds int) bool {
	if !a.bound.Load() {
		return false
	}

	ctx, span := tracing.StartBackendCallSpan(ctx, "start_recording", recordingID)
	defer span.End()

	err := a.backend.StartRecording(ctx, &StartRecordingRequest{
		RecordingID:        recordingID,
		World:              anchor.World,
		X:                  anchor.X,
		Y:                  anchor.Y,
		Z:                  anchor.Z,
		MaxDurationSeconds: maxDurationSeconds,
	})
	if err != nil {
		tracing.RecordLifecycleOutcome(span, "failed", err)
		slog.WarnContext(ctx, "failed to start recording",
			slog.String("recording_id", recordingID),
			slog.String("error", err.Error()),
		)
		return false
	}

	tracing.RecordLifecycleOutcome(span, "started", nil)
	return true
}

func (a *Adapter) StopRecording(ctx context.Context, recordingID string, save bool) bool {
	if !a.bound.Load() {
		return false
	}

	ctx, span := tracing.StartBackendCallSpan(ctx, "stop_recording", recordingID)
	defer span.End()

	if err := a.backend.StopRecording(ctx, recordingID, save); err != nil {
		tracing.RecordLifecycleOutcome(span, "failed", err)
		slog.WarnContext(ctx, "failed to stop recording",
			slog.String("recording_id", recordingID),
			slog.Bool("save", save),
			slog.String("error", err.Error()),
		)
		return false
	}

	tracing.RecordLifecycleOutcome(span, "stopped", nil)
	return true
}

// LookupRecording probes whether the backend still holds the capture. Used
// by the listing surface to validate a selection before playback is
// delegated to the backend.
func (a *Adapter) LookupRecording(ctx context.Context, recordingID string) bool {
	if !a.bound.Load() {
		return false
	}

	if _, err := a.backend.GetRecording(ctx, recordingID); err != nil {
		slog.DebugContext(ctx, "recording lookup failed",
			slog.String("recording_id", recordingID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// GenerateRecordingID derives a collision-resistant id from the match id
// and the current time. Pure; no backend call.
func (a *Adapter) GenerateRecordingID(matchID string, participants []uuid.UUID) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("replay_%s_%d_%s", matchID, time.Now().UnixMilli(), suffix)
}
