package anchor

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
)

func TestResolvePriorityOrder(t *testing.T) {
	resolver := NewResolver()

	pos1 := &domain.SpatialPoint{World: "arena", X: 0, Y: 64, Z: 0}
	pos2 := &domain.SpatialPoint{World: "arena", X: 10, Y: 64, Z: 20}
	playerLoc := &domain.SpatialPoint{World: "arena", X: 3, Y: 65, Z: 7}
	participants := []domain.Participant{
		{UserID: uuid.New(), Location: playerLoc},
		{UserID: uuid.New(), Location: nil},
	}

	tests := []struct {
		name         string
		pos1, pos2   *domain.SpatialPoint
		participants []domain.Participant
		expected     domain.SpatialPoint
		wantErr      bool
	}{
		{
			name: "both positions give midpoint",
			pos1: pos1, pos2: pos2,
			participants: participants,
			expected:     domain.SpatialPoint{World: "arena", X: 5, Y: 64, Z: 10},
		},
		{
			name:         "only first position",
			pos1:         pos1,
			participants: participants,
			expected:     *pos1,
		},
		{
			name:         "only second position",
			pos2:         pos2,
			participants: participants,
			expected:     *pos2,
		},
		{
			name:         "falls back to first participant location",
			participants: participants,
			expected:     *playerLoc,
		},
		{
			name: "skips participants without a location",
			participants: []domain.Participant{
				{UserID: uuid.New(), Location: nil},
				{UserID: uuid.New(), Location: playerLoc},
			},
			expected: *playerLoc,
		},
		{
			name:         "nothing usable",
			participants: []domain.Participant{{UserID: uuid.New()}},
			wantErr:      true,
		},
		{
			name:    "no participants at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.pos1, tt.pos2, tt.participants)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrAnchorUndetermined) {
					t.Errorf("expected ErrAnchorUndetermined, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}
