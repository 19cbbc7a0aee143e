package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchReplayRecord is the retained history entry for one recording. The
// orchestrator creates it when a recording starts; the store sets EndedAt
// exactly once when the recording stops with a save request. All other
// fields are immutable after creation.
type MatchReplayRecord struct {
	RecordingID   string
	MatchID       string
	Participants  []uuid.UUID
	StartedAt     time.Time
	EndedAt       time.Time
	ActivityLabel string
	VenueLabel    string
}

func NewMatchReplayRecord(
	recordingID, matchID string,
	participants []uuid.UUID,
	startedAt time.Time,
	activityLabel, venueLabel string,
) *MatchReplayRecord {
	return &MatchReplayRecord{
		RecordingID:   recordingID,
		MatchID:       matchID,
		Participants:  participants,
		StartedAt:     startedAt,
		ActivityLabel: activityLabel,
		VenueLabel:    venueLabel,
	}
}

// IsComplete reports whether the recording has ended.
func (r *MatchReplayRecord) IsComplete() bool {
	return !r.EndedAt.IsZero()
}

// Duration is the elapsed recording time. For a still-open recording it is
// measured against the current time.
func (r *MatchReplayRecord) Duration() time.Duration {
	if r.IsComplete() {
		return r.EndedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

func (r *MatchReplayRecord) DurationSeconds() int64 {
	return int64(r.Duration().Seconds())
}

// FormattedDuration renders the duration as MM:SS for display surfaces.
func (r *MatchReplayRecord) FormattedDuration() string {
	seconds := r.DurationSeconds()
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// HasParticipant reports whether the given user took part in the match.
func (r *MatchReplayRecord) HasParticipant(userID uuid.UUID) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
