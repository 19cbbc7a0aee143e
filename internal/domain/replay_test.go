package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMatchReplayRecordCompletion(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	rec := NewMatchReplayRecord("replay-1", "match-1", nil, start, "Classic", "Colosseum")
	if rec.IsComplete() {
		t.Error("record should not be complete before EndedAt is set")
	}

	rec.EndedAt = start.Add(95 * time.Second)
	if !rec.IsComplete() {
		t.Error("record should be complete once EndedAt is set")
	}
	if got := rec.Duration(); got != 95*time.Second {
		t.Errorf("Duration: got %v, want %v", got, 95*time.Second)
	}
	if got := rec.DurationSeconds(); got != 95 {
		t.Errorf("DurationSeconds: got %d, want 95", got)
	}
}

func TestFormattedDuration(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{name: "zero", elapsed: 0, expected: "00:00"},
		{name: "under a minute", elapsed: 42 * time.Second, expected: "00:42"},
		{name: "minutes and seconds", elapsed: 95 * time.Second, expected: "01:35"},
		{name: "over ten minutes", elapsed: 754 * time.Second, expected: "12:34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewMatchReplayRecord("r", "m", nil, start, "", "")
			rec.EndedAt = start.Add(tt.elapsed)
			if got := rec.FormattedDuration(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHasParticipant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	rec := NewMatchReplayRecord("r", "m", []uuid.UUID{a}, time.Now(), "", "")

	if !rec.HasParticipant(a) {
		t.Error("expected participant a to be present")
	}
	if rec.HasParticipant(b) {
		t.Error("did not expect participant b to be present")
	}
}

func TestMidpoint(t *testing.T) {
	a := SpatialPoint{World: "arena", X: 0, Y: 64, Z: -10}
	b := SpatialPoint{World: "arena", X: 10, Y: 70, Z: 10}

	mid := Midpoint(a, b)
	want := SpatialPoint{World: "arena", X: 5, Y: 67, Z: 0}
	if mid != want {
		t.Errorf("got %+v, want %+v", mid, want)
	}
}
