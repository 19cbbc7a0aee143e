// Package replay bridges match lifecycle notifications to the recording
// backend and the history store.
package replay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/config"
	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/event"
	"github.com/arenakit/match-replay-service/internal/infra/replaybackend"
	"github.com/arenakit/match-replay-service/internal/observability/metrics"
	"github.com/arenakit/match-replay-service/internal/observability/tracing"
)

// Service owns every recording state transition. Recording is strictly
// best-effort: no failure here ever reaches the match that triggered it.
type Service struct {
	cfg           *config.ReplayConfig
	adapter       *replaybackend.Adapter
	store         domain.ReplayHistory
	resolver      AnchorResolver
	replayMetrics *metrics.ReplayMetrics
	auditRecorder domain.ReplayAuditRecorder

	subscriptions []interface{ Unsubscribe() }
	shutdownOnce  sync.Once
}

// AnchorResolver derives the capture anchor for a starting match.
type AnchorResolver interface {
	Resolve(pos1, pos2 *domain.SpatialPoint, participants []domain.Participant) (domain.SpatialPoint, error)
}

func NewService(
	cfg *config.ReplayConfig,
	adapter *replaybackend.Adapter,
	store domain.ReplayHistory,
	resolver AnchorResolver,
	replayMetrics *metrics.ReplayMetrics,
	auditRecorder domain.ReplayAuditRecorder,
) *Service {
	return &Service{
		cfg:           cfg,
		adapter:       adapter,
		store:         store,
		resolver:      resolver,
		replayMetrics: replayMetrics,
		auditRecorder: auditRecorder,
	}
}

// Subscribe registers the lifecycle handlers on the bus. Shutdown removes
// them again.
func (s *Service) Subscribe(bus *event.Bus) {
	s.subscriptions = append(s.subscriptions,
		bus.SubscribeMatchStart(s.HandleMatchStart),
		bus.SubscribeMatchEnd(s.HandleMatchEnd),
	)
}

// HandleMatchStart derives the anchor, starts the backend recording and
// registers the open record. On any failure the match proceeds without a
// recording; nothing partial is stored.
func (s *Service) HandleMatchStart(ctx context.Context, ev event.MatchStartEvent) {
	if !s.cfg.Enabled {
		return
	}

	ctx, span := tracing.StartMatchStartSpan(ctx, ev.MatchID, len(ev.Participants))
	defer span.End()

	if !s.adapter.IsAvailable(ctx) {
		s.skip(ctx, ev.MatchID, metrics.SkipReasonUnavailable)
		tracing.RecordLifecycleOutcome(span, "skipped", nil)
		return
	}

	anchorPoint, err := s.resolver.Resolve(ev.VenuePos1, ev.VenuePos2, ev.Participants)
	if err != nil {
		slog.WarnContext(ctx, "could not determine anchor for recording",
			slog.String("match_id", ev.MatchID),
			slog.String("venue", ev.VenueLabel),
		)
		s.skip(ctx, ev.MatchID, metrics.SkipReasonNoAnchor)
		tracing.RecordLifecycleOutcome(span, "skipped", err)
		return
	}

	participants := make([]uuid.UUID, 0, len(ev.Participants))
	for _, p := range ev.Participants {
		participants = append(participants, p.UserID)
	}

	recordingID := s.adapter.GenerateRecordingID(ev.MatchID, participants)

	if !s.adapter.StartRecording(ctx, recordingID, anchorPoint, s.cfg.MaxDurationSeconds) {
		s.skip(ctx, ev.MatchID, metrics.SkipReasonRejected)
		tracing.RecordLifecycleOutcome(span, "skipped", nil)
		return
	}

	rec := domain.NewMatchReplayRecord(
		recordingID,
		ev.MatchID,
		participants,
		time.Now(),
		ev.ActivityLabel,
		ev.VenueLabel,
	)

	if err := s.store.BeginRecording(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrRecordingActive) {
			slog.WarnContext(ctx, "duplicate match start, discarding extra recording",
				slog.String("match_id", ev.MatchID),
				slog.String("recording_id", recordingID),
			)
			// The backend capture for the duplicate is orphaned otherwise.
			s.adapter.StopRecording(ctx, recordingID, false)
			s.skip(ctx, ev.MatchID, metrics.SkipReasonDoubleStart)
			tracing.RecordLifecycleOutcome(span, "skipped", err)
			return
		}
		slog.ErrorContext(ctx, "failed to register recording",
			slog.String("match_id", ev.MatchID),
			slog.String("recording_id", recordingID),
			slog.String("error", err.Error()),
		)
		s.adapter.StopRecording(ctx, recordingID, false)
		tracing.RecordLifecycleOutcome(span, "failed", err)
		return
	}

	slog.InfoContext(ctx, "recording started",
		slog.String("match_id", ev.MatchID),
		slog.String("recording_id", recordingID),
		slog.Int("participant_count", len(participants)),
	)
	if s.replayMetrics != nil {
		s.replayMetrics.RecordRecordingStarted(ctx)
	}
	s.audit(ctx, domain.ReplayAuditEvent{
		RecordingID:  recordingID,
		MatchID:      ev.MatchID,
		Phase:        domain.AuditPhaseStarted,
		Participants: len(participants),
		At:           rec.StartedAt,
	})
	tracing.RecordLifecycleOutcome(span, "started", nil)
}

// HandleMatchEnd stops the backend recording and settles the store. Store
// bookkeeping completes regardless of the backend outcome, so no stale
// active entry survives a degraded stop. Ending a match that never
// recorded is a no-op.
func (s *Service) HandleMatchEnd(ctx context.Context, ev event.MatchEndEvent) {
	if !s.cfg.Enabled {
		return
	}

	recordingID, err := s.store.ActiveRecording(ctx, ev.MatchID)
	if err != nil {
		// Expected whenever recording was skipped at start.
		return
	}

	ctx, span := tracing.StartMatchEndSpan(ctx, ev.MatchID, ev.Reason.String())
	defer span.End()

	save := !ev.Discard
	stopped := s.adapter.StopRecording(ctx, recordingID, save)
	if !stopped {
		slog.WarnContext(ctx, "backend stop degraded, settling store anyway",
			slog.String("match_id", ev.MatchID),
			slog.String("recording_id", recordingID),
		)
	}

	if !save {
		if err := s.store.CompleteAndDiscard(ctx, ev.MatchID); err != nil {
			slog.ErrorContext(ctx, "failed to discard recording",
				slog.String("match_id", ev.MatchID),
				slog.String("error", err.Error()),
			)
		}
		slog.InfoContext(ctx, "recording discarded",
			slog.String("match_id", ev.MatchID),
			slog.String("recording_id", recordingID),
			slog.String("end_reason", ev.Reason.String()),
		)
		if s.replayMetrics != nil {
			s.replayMetrics.RecordRecordingDiscarded(ctx, ev.Reason.String())
		}
		s.audit(ctx, domain.ReplayAuditEvent{
			RecordingID: recordingID,
			MatchID:     ev.MatchID,
			Phase:       domain.AuditPhaseDiscarded,
			Reason:      ev.Reason.String(),
			At:          time.Now(),
		})
		tracing.RecordLifecycleOutcome(span, "discarded", nil)
		return
	}

	rec, err := s.store.CompleteAndSave(ctx, ev.MatchID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoActiveRecording) {
			slog.ErrorContext(ctx, "failed to save recording",
				slog.String("match_id", ev.MatchID),
				slog.String("error", err.Error()),
			)
		}
		tracing.RecordLifecycleOutcome(span, "failed", err)
		return
	}

	slog.InfoContext(ctx, "recording saved",
		slog.String("match_id", ev.MatchID),
		slog.String("recording_id", rec.RecordingID),
		slog.String("end_reason", ev.Reason.String()),
		slog.Duration("duration", rec.Duration()),
	)
	if s.replayMetrics != nil {
		s.replayMetrics.RecordRecordingSaved(ctx, ev.Reason.String(), rec.Duration())
	}
	s.audit(ctx, domain.ReplayAuditEvent{
		RecordingID:     rec.RecordingID,
		MatchID:         ev.MatchID,
		Phase:           domain.AuditPhaseSaved,
		Reason:          ev.Reason.String(),
		Participants:    len(rec.Participants),
		DurationSeconds: rec.Duration().Seconds(),
		At:              rec.EndedAt,
	})
	tracing.RecordLifecycleOutcome(span, "saved", nil)
}

// Shutdown force-stops every active recording with save=true, clears the
// store and unsubscribes from the bus. Safe to call more than once.
func (s *Service) Shutdown(ctx context.Context) {
	s.shutdownOnce.Do(func() {
		for _, sub := range s.subscriptions {
			sub.Unsubscribe()
		}
		s.subscriptions = nil

		snapshot, err := s.store.ActiveSnapshot(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to snapshot active recordings",
				slog.String("error", err.Error()),
			)
			snapshot = nil
		}

		for matchID, recordingID := range snapshot {
			if !s.adapter.StopRecording(ctx, recordingID, true) {
				slog.WarnContext(ctx, "failed to force-stop recording during shutdown",
					slog.String("match_id", matchID),
					slog.String("recording_id", recordingID),
				)
			}
			// Settle the record into histories; the backend kept the capture.
			if _, err := s.store.CompleteAndSave(ctx, matchID); err != nil {
				slog.WarnContext(ctx, "failed to settle recording during shutdown",
					slog.String("match_id", matchID),
					slog.String("error", err.Error()),
				)
			}
		}

		if err := s.store.Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to clear replay store",
				slog.String("error", err.Error()),
			)
		}

		if len(snapshot) > 0 {
			slog.InfoContext(ctx, "replay manager shut down",
				slog.Int("force_stopped", len(snapshot)),
			)
		}
	})
}

func (s *Service) skip(ctx context.Context, matchID, reason string) {
	if s.replayMetrics != nil {
		s.replayMetrics.RecordRecordingSkipped(ctx, reason)
	}
	s.audit(ctx, domain.ReplayAuditEvent{
		MatchID: matchID,
		Phase:   domain.AuditPhaseSkipped,
		Reason:  reason,
		At:      time.Now(),
	})
}

func (s *Service) audit(ctx context.Context, ev domain.ReplayAuditEvent) {
	if s.auditRecorder == nil {
		return
	}
	if err := s.auditRecorder.RecordLifecycle(ctx, ev); err != nil {
		slog.DebugContext(ctx, "failed to record audit event",
			slog.String("match_id", ev.MatchID),
			slog.String("phase", ev.Phase),
			slog.String("error", err.Error()),
		)
	}
}
