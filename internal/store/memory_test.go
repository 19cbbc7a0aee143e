package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
)

func newRecord(recordingID, matchID string, startedAt time.Time, participants ...uuid.UUID) *domain.MatchReplayRecord {
	return domain.NewMatchReplayRecord(recordingID, matchID, participants, startedAt, "Classic", "Colosseum")
}

func TestBeginRecordingRejectsDoubleStart(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	now := time.Now()
	if err := m.BeginRecording(ctx, newRecord("r1", "m1", now)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := m.BeginRecording(ctx, newRecord("r2", "m1", now))
	if !errors.Is(err, domain.ErrRecordingActive) {
		t.Errorf("expected ErrRecordingActive, got %v", err)
	}

	// The first registration must survive the rejected second one.
	recordingID, err := m.ActiveRecording(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recordingID != "r1" {
		t.Errorf("active recording: got %q, want %q", recordingID, "r1")
	}
}

func TestCompleteAndSaveClosesAndPublishes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	userA := uuid.New()
	userB := uuid.New()

	started := time.Now().Add(-time.Minute)
	if err := m.BeginRecording(ctx, newRecord("r1", "m1", started, userA, userB)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := m.CompleteAndSave(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.IsComplete() {
		t.Error("saved record should be complete")
	}
	if rec.EndedAt.Before(rec.StartedAt) {
		t.Error("EndedAt must not precede StartedAt")
	}

	for _, userID := range []uuid.UUID{userA, userB} {
		list, err := m.ListForUser(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 1 || list[0].RecordingID != "r1" {
			t.Errorf("user %s history: got %v", userID, list)
		}
	}

	// Active mapping must be gone.
	if _, err := m.ActiveRecording(ctx, "m1"); !errors.Is(err, domain.ErrNoActiveRecording) {
		t.Errorf("expected ErrNoActiveRecording, got %v", err)
	}

	// Second save for the same match is a no-op.
	if _, err := m.CompleteAndSave(ctx, "m1"); !errors.Is(err, domain.ErrNoActiveRecording) {
		t.Errorf("expected ErrNoActiveRecording on second save, got %v", err)
	}
}

func TestCompleteAndDiscardNeverReachesHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	user := uuid.New()

	if err := m.BeginRecording(ctx, newRecord("r1", "m1", time.Now(), user)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.CompleteAndDiscard(ctx, "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := m.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("discarded record leaked into history: %v", list)
	}

	if _, err := m.LookupByID(ctx, "r1"); !errors.Is(err, domain.ErrRecordingNotFound) {
		t.Errorf("expected ErrRecordingNotFound after discard, got %v", err)
	}

	// Discarding a match with nothing active is fine.
	if err := m.CompleteAndDiscard(ctx, "m1"); err != nil {
		t.Errorf("second discard should be a no-op, got %v", err)
	}
}

func TestBoundedHistoryEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	userA := uuid.New()
	userB := uuid.New()
	userC := uuid.New()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	saveMatch := func(n int, users ...uuid.UUID) {
		t.Helper()
		matchID := fmt.Sprintf("m%d", n)
		recordingID := fmt.Sprintf("r%d", n)
		rec := newRecord(recordingID, matchID, base.Add(time.Duration(n)*time.Minute), users...)
		if err := m.BeginRecording(ctx, rec); err != nil {
			t.Fatalf("begin %s: %v", matchID, err)
		}
		if _, err := m.CompleteAndSave(ctx, matchID); err != nil {
			t.Fatalf("save %s: %v", matchID, err)
		}
	}

	saveMatch(1, userA, userB)
	saveMatch(2, userA, userC)
	saveMatch(3, userA)

	listA, _ := m.ListForUser(ctx, userA)
	if len(listA) != 2 {
		t.Fatalf("user A history length: got %d, want 2", len(listA))
	}
	// Newest first: m3 then m2; m1 evicted.
	if listA[0].RecordingID != "r3" || listA[1].RecordingID != "r2" {
		t.Errorf("user A history: got [%s %s], want [r3 r2]", listA[0].RecordingID, listA[1].RecordingID)
	}

	// Eviction is per user: B and C keep their single records.
	listB, _ := m.ListForUser(ctx, userB)
	if len(listB) != 1 || listB[0].RecordingID != "r1" {
		t.Errorf("user B history: got %v", listB)
	}
	listC, _ := m.ListForUser(ctx, userC)
	if len(listC) != 1 || listC[0].RecordingID != "r2" {
		t.Errorf("user C history: got %v", listC)
	}
}

func TestListOrderedByStartNotCompletion(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	user := uuid.New()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if err := m.BeginRecording(ctx, newRecord("rEarly", "mEarly", base, user)); err != nil {
		t.Fatalf("begin mEarly: %v", err)
	}
	if err := m.BeginRecording(ctx, newRecord("rLate", "mLate", base.Add(5*time.Minute), user)); err != nil {
		t.Fatalf("begin mLate: %v", err)
	}

	// The later-started match ends first; listing still orders by start.
	if _, err := m.CompleteAndSave(ctx, "mLate"); err != nil {
		t.Fatalf("save mLate: %v", err)
	}
	if _, err := m.CompleteAndSave(ctx, "mEarly"); err != nil {
		t.Fatalf("save mEarly: %v", err)
	}

	list, err := m.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("history length: got %d, want 2", len(list))
	}
	if list[0].RecordingID != "rLate" || list[1].RecordingID != "rEarly" {
		t.Errorf("history order: got [%s %s], want [rLate rEarly]", list[0].RecordingID, list[1].RecordingID)
	}
}

func TestListForUnknownUserIsEmpty(t *testing.T) {
	m := NewMemory(10)

	list, err := m.ListForUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty history, got %v", list)
	}
}

func TestClearDropsEverything(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	user := uuid.New()

	if err := m.BeginRecording(ctx, newRecord("r1", "m1", time.Now(), user)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.CompleteAndSave(ctx, "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.BeginRecording(ctx, newRecord("r2", "m2", time.Now(), user)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, _ := m.ActiveSnapshot(ctx)
	if len(snapshot) != 0 {
		t.Errorf("active entries survived clear: %v", snapshot)
	}
	list, _ := m.ListForUser(ctx, user)
	if len(list) != 0 {
		t.Errorf("history survived clear: %v", list)
	}
}

func TestConcurrentSavesHoldBound(t *testing.T) {
	ctx := context.Background()
	const bound = 10
	const matches = 64

	m := NewMemory(bound)
	shared := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < matches; i++ {
		rec := newRecord(fmt.Sprintf("r%d", i), fmt.Sprintf("m%d", i), base.Add(time.Duration(i)*time.Second), shared, uuid.New())
		if err := m.BeginRecording(ctx, rec); err != nil {
			t.Fatalf("begin m%d: %v", i, err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < matches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.CompleteAndSave(ctx, fmt.Sprintf("m%d", i)); err != nil {
				t.Errorf("save m%d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	list, err := m.ListForUser(ctx, shared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != bound {
		t.Errorf("history length after concurrent saves: got %d, want %d", len(list), bound)
	}

	snapshot, _ := m.ActiveSnapshot(ctx)
	if len(snapshot) != 0 {
		t.Errorf("active entries leaked: %v", snapshot)
	}
}
