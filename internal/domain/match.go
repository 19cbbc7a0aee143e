package domain

import "github.com/google/uuid"

// SpatialPoint is a position inside a venue world. The external backend
// centers its capture on one of these.
type SpatialPoint struct {
	World string
	X     float64
	Y     float64
	Z     float64
}

// Midpoint returns the arithmetic midpoint of two points. The world of the
// first point wins; venues never span worlds.
func Midpoint(a, b SpatialPoint) SpatialPoint {
	return SpatialPoint{
		World: a.World,
		X:     (a.X + b.X) / 2,
		Y:     (a.Y + b.Y) / 2,
		Z:     (a.Z + b.Z) / 2,
	}
}

// Participant is a match member at match-start time. Location may be nil
// when the caller could not resolve a position.
type Participant struct {
	UserID   uuid.UUID
	Location *SpatialPoint
}

// EndReason classifies why a match ended.
type EndReason string

const (
	EndReasonNormal      EndReason = "normal"
	EndReasonForfeit     EndReason = "forfeit"
	EndReasonMaxDuration EndReason = "max_duration"
	EndReasonAdmin       EndReason = "admin"
	EndReasonShutdown    EndReason = "shutdown"
)

func (r EndReason) String() string {
	return string(r)
}

// IsShutdown reports whether the match ended because the process is going
// down. Shutdown-reason ends still save by default; only an explicit
// discard signal from the caller suppresses the save.
func (r EndReason) IsShutdown() bool {
	return r == EndReasonShutdown
}
