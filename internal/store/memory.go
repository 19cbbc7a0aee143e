// Package store provides the in-process implementation of the replay
// history bookkeeping.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
)

// userHistory is one user's bounded slice of completed records, oldest
// first. Each user carries its own lock so appends for unrelated users
// never contend.
type userHistory struct {
	mu      sync.Mutex
	records []domain.MatchReplayRecord
}

// Memory is the default ReplayHistory implementation. The active and byID
// maps share one RWMutex; per-user histories live behind a sync.Map of
// independently locked entries.
type Memory struct {
	maxPerUser int

	mu     sync.RWMutex
	active map[string]string
	byID   map[string]*domain.MatchReplayRecord

	users sync.Map // uuid.UUID -> *userHistory
}

func NewMemory(maxPerUser int) *Memory {
	return &Memory{
		maxPerUser: maxPerUser,
		active:     make(map[string]string),
		byID:       make(map[string]*domain.MatchReplayRecord),
	}
}

func (m *Memory) BeginRecording(_ context.Context, rec *domain.MatchReplayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[rec.MatchID]; exists {
		return domain.ErrRecordingActive
	}

	m.active[rec.MatchID] = rec.RecordingID
	m.byID[rec.RecordingID] = rec
	return nil
}

func (m *Memory) ActiveRecording(_ context.Context, matchID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recordingID, ok := m.active[matchID]
	if !ok {
		return "", domain.ErrNoActiveRecording
	}
	return recordingID, nil
}

func (m *Memory) CompleteAndSave(_ context.Context, matchID string) (*domain.MatchReplayRecord, error) {
	m.mu.Lock()
	recordingID, ok := m.active[matchID]
	if !ok {
		m.mu.Unlock()
		return nil, domain.ErrNoActiveRecording
	}
	delete(m.active, matchID)

	rec := m.byID[recordingID]
	if rec == nil {
		m.mu.Unlock()
		return nil, domain.ErrRecordingNotFound
	}
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}
	closed := *rec
	m.mu.Unlock()

	for _, userID := range closed.Participants {
		m.appendForUser(userID, closed)
	}

	return &closed, nil
}

func (m *Memory) CompleteAndDiscard(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recordingID, ok := m.active[matchID]
	if !ok {
		return nil
	}
	delete(m.active, matchID)
	delete(m.byID, recordingID)
	return nil
}

func (m *Memory) ListForUser(_ context.Context, userID uuid.UUID) ([]domain.MatchReplayRecord, error) {
	v, ok := m.users.Load(userID)
	if !ok {
		return []domain.MatchReplayRecord{}, nil
	}

	h := v.(*userHistory)
	h.mu.Lock()
	out := make([]domain.MatchReplayRecord, len(h.records))
	copy(out, h.records)
	h.mu.Unlock()

	// Completion order is not start order: a short match started later can
	// finish before a long one started earlier.
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

func (m *Memory) LookupByID(_ context.Context, recordingID string) (*domain.MatchReplayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[recordingID]
	if !ok {
		return nil, domain.ErrRecordingNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) ActiveSnapshot(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]string, len(m.active))
	for matchID, recordingID := range m.active {
		snapshot[matchID] = recordingID
	}
	return snapshot, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.active = make(map[string]string)
	m.byID = make(map[string]*domain.MatchReplayRecord)
	m.mu.Unlock()

	m.users.Range(func(key, _ any) bool {
		m.users.Delete(key)
		return true
	})
	return nil
}

// appendForUser appends one closed record to a user's history and evicts
// the single oldest entry (by StartedAt) when the bound would be exceeded.
// Append and evict happen under the same per-user lock, so the bound is
// never transiently violated.
func (m *Memory) appendForUser(userID uuid.UUID, rec domain.MatchReplayRecord) {
	v, _ := m.users.LoadOrStore(userID, &userHistory{})
	h := v.(*userHistory)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	for m.maxPerUser > 0 && len(h.records) > m.maxPerUser {
		oldest := 0
		for i, r := range h.records {
			if r.StartedAt.Before(h.records[oldest].StartedAt) {
				oldest = i
			}
		}
		h.records = append(h.records[:oldest], h.records[oldest+1:]...)
	}
}
