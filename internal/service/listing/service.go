// Package listing exposes read-only views over saved replay history.
package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/config"
	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/infra/replaybackend"
)

type Service struct {
	cfg     *config.ReplayConfig
	adapter *replaybackend.Adapter
	store   domain.ReplayHistory
}

func NewService(cfg *config.ReplayConfig, adapter *replaybackend.Adapter, store domain.ReplayHistory) *Service {
	return &Service{
		cfg:     cfg,
		adapter: adapter,
		store:   store,
	}
}

// History returns the user's saved replays, newest first. A user with no
// saved replays gets an empty slice, never an error.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]domain.MatchReplayRecord, error) {
	return s.store.ListForUser(ctx, userID)
}

// Record looks up a single saved replay by its recording ID.
func (s *Service) Record(ctx context.Context, recordingID string) (*domain.MatchReplayRecord, error) {
	return s.store.LookupByID(ctx, recordingID)
}

// Playable reports whether the backend still holds the capture for a saved
// record, meaning playback can be delegated to it.
func (s *Service) Playable(ctx context.Context, recordingID string) bool {
	return s.adapter.LookupRecording(ctx, recordingID)
}

// FeatureEnabled reports whether replay capture is currently operational:
// the feature toggle is on and the backend answers its status probe.
func (s *Service) FeatureEnabled(ctx context.Context) bool {
	return s.cfg.Enabled && s.adapter.IsAvailable(ctx)
}
