package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/event"
)

// MatchEventHandler accepts match lifecycle notifications from the game
// server and republishes them on the internal event bus.
type MatchEventHandler struct {
	bus *event.Bus
}

func NewMatchEventHandler(bus *event.Bus) *MatchEventHandler {
	return &MatchEventHandler{bus: bus}
}

type spatialPointPayload struct {
	World string  `json:"world"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

type participantPayload struct {
	UserID   string               `json:"user_id"`
	Location *spatialPointPayload `json:"location,omitempty"`
}

type matchStartPayload struct {
	MatchID       string               `json:"match_id"`
	Participants  []participantPayload `json:"participants"`
	VenuePos1     *spatialPointPayload `json:"venue_pos1,omitempty"`
	VenuePos2     *spatialPointPayload `json:"venue_pos2,omitempty"`
	ActivityLabel string               `json:"activity_label"`
	VenueLabel    string               `json:"venue_label"`
}

type matchEndPayload struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Discard bool   `json:"discard"`
}

func (p *spatialPointPayload) toDomain() *domain.SpatialPoint {
	if p == nil {
		return nil
	}
	return &domain.SpatialPoint{World: p.World, X: p.X, Y: p.Y, Z: p.Z}
}

func (h *MatchEventHandler) HandleMatchStart(c *gin.Context) {
	ctx := c.Request.Context()

	var payload matchStartPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MatchID == "" {
		respondError(c, http.StatusBadRequest, "match_id is required")
		return
	}
	if len(payload.Participants) == 0 {
		respondError(c, http.StatusBadRequest, "participants must not be empty")
		return
	}

	participants := make([]domain.Participant, 0, len(payload.Participants))
	for _, p := range payload.Participants {
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid participant user_id")
			return
		}
		participants = append(participants, domain.Participant{
			UserID:   userID,
			Location: p.Location.toDomain(),
		})
	}

	ev := event.MatchStartEvent{
		MatchID:       payload.MatchID,
		Participants:  participants,
		VenuePos1:     payload.VenuePos1.toDomain(),
		VenuePos2:     payload.VenuePos2.toDomain(),
		ActivityLabel: payload.ActivityLabel,
		VenueLabel:    payload.VenueLabel,
	}

	slog.InfoContext(ctx, "received match start",
		slog.String("match_id", ev.MatchID),
		slog.Int("participants", len(ev.Participants)),
	)

	h.bus.PublishMatchStart(ctx, ev)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *MatchEventHandler) HandleMatchEnd(c *gin.Context) {
	ctx := c.Request.Context()

	var payload matchEndPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MatchID == "" {
		respondError(c, http.StatusBadRequest, "match_id is required")
		return
	}

	reason := domain.EndReason(payload.Reason)
	if payload.Reason == "" {
		reason = domain.EndReasonNormal
	}

	slog.InfoContext(ctx, "received match end",
		slog.String("match_id", payload.MatchID),
		slog.String("reason", reason.String()),
		slog.Bool("discard", payload.Discard),
	)

	h.bus.PublishMatchEnd(ctx, event.MatchEndEvent{
		MatchID: payload.MatchID,
		Reason:  reason,
		Discard: payload.Discard,
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": message,
	})
}
