package event

import (
	"github.com/arenakit/match-replay-service/internal/domain"
)

// MatchStartEvent announces that a timed match has begun.
type MatchStartEvent struct {
	MatchID       string
	Participants  []domain.Participant
	VenuePos1     *domain.SpatialPoint
	VenuePos2     *domain.SpatialPoint
	ActivityLabel string
	VenueLabel    string
}

// MatchEndEvent announces that a match has finished. Discard suppresses the
// save; the end reason alone never does, including shutdown.
type MatchEndEvent struct {
	MatchID string
	Reason  domain.EndReason
	Discard bool
}
