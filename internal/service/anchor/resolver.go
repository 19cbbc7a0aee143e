// Package anchor derives the capture anchor point for a match.
package anchor

import (
	"github.com/arenakit/match-replay-service/internal/domain"
)

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve picks the recording anchor in priority order: midpoint of both
// venue positions, a single venue position, the first participant with a
// location, otherwise ErrAnchorUndetermined.
func (r *Resolver) Resolve(pos1, pos2 *domain.SpatialPoint, participants []domain.Participant) (domain.SpatialPoint, error) {
	switch {
	case pos1 != nil && pos2 != nil:
		return domain.Midpoint(*pos1, *pos2), nil
	case pos1 != nil:
		return *pos1, nil
	case pos2 != nil:
		return *pos2, nil
	}

	for _, p := range participants {
		if p.Location != nil {
			return *p.Location, nil
		}
	}

	return domain.SpatialPoint{}, domain.ErrAnchorUndetermined
}
