package domain

import (
	"context"

	"github.com/google/uuid"
)

// ReplayHistory is the concurrent bookkeeping surface for active and
// completed recordings. Implementations must keep per-user append+evict
// atomic and must not serialize unrelated users behind one lock.
type ReplayHistory interface {
	// BeginRecording registers the active mapping and stores the initial
	// record with EndedAt unset. Returns ErrRecordingActive if the match
	// already has an active recording; the existing state is untouched.
	BeginRecording(ctx context.Context, rec *MatchReplayRecord) error

	// ActiveRecording returns the recording id currently open for the
	// match, or ErrNoActiveRecording.
	ActiveRecording(ctx context.Context, matchID string) (string, error)

	// CompleteAndSave removes the active mapping, closes the record and
	// appends it to each participant's bounded history, evicting the
	// oldest entry where the bound would be exceeded. Returns
	// ErrNoActiveRecording if the match had no open recording.
	CompleteAndSave(ctx context.Context, matchID string) (*MatchReplayRecord, error)

	// CompleteAndDiscard removes the active mapping and drops the record
	// without it ever reaching a history. No-op if nothing was active.
	CompleteAndDiscard(ctx context.Context, matchID string) error

	// ListForUser returns the user's retained records newest-first. An
	// unknown user yields an empty slice, not an error.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]MatchReplayRecord, error)

	// LookupByID returns a record by recording id, or ErrRecordingNotFound.
	LookupByID(ctx context.Context, recordingID string) (*MatchReplayRecord, error)

	// ActiveSnapshot returns the current matchID -> recordingID mapping.
	ActiveSnapshot(ctx context.Context) (map[string]string, error)

	// Clear drops the active bookkeeping. Used only during shutdown, after
	// every open recording has been force-stopped. Process-local state goes
	// with it; a persistent backend keeps its saved histories.
	Clear(ctx context.Context) error
}
