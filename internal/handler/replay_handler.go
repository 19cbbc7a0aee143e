package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arenakit/match-replay-service/internal/domain"
	"github.com/arenakit/match-replay-service/internal/service/listing"
)

// ReplayHandler serves the read-only replay listing endpoints.
type ReplayHandler struct {
	listingService *listing.Service
}

func NewReplayHandler(listingService *listing.Service) *ReplayHandler {
	return &ReplayHandler{listingService: listingService}
}

type replayRecordPayload struct {
	RecordingID       string    `json:"recording_id"`
	MatchID           string    `json:"match_id"`
	Participants      []string  `json:"participants"`
	StartedAt         time.Time `json:"started_at"`
	EndedAt           time.Time `json:"ended_at,omitempty"`
	Complete          bool      `json:"complete"`
	DurationSeconds   int64     `json:"duration_seconds"`
	FormattedDuration string    `json:"formatted_duration"`
	ActivityLabel     string    `json:"activity_label,omitempty"`
	VenueLabel        string    `json:"venue_label,omitempty"`
}

func toReplayRecordPayload(rec *domain.MatchReplayRecord) replayRecordPayload {
	participants := make([]string, 0, len(rec.Participants))
	for _, p := range rec.Participants {
		participants = append(participants, p.String())
	}
	return replayRecordPayload{
		RecordingID:       rec.RecordingID,
		MatchID:           rec.MatchID,
		Participants:      participants,
		StartedAt:         rec.StartedAt,
		EndedAt:           rec.EndedAt,
		Complete:          rec.IsComplete(),
		DurationSeconds:   rec.DurationSeconds(),
		FormattedDuration: rec.FormattedDuration(),
		ActivityLabel:     rec.ActivityLabel,
		VenueLabel:        rec.VenueLabel,
	}
}

func (h *ReplayHandler) HandleListUserReplays(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	records, err := h.listingService.History(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list replays",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "failed to list replays")
		return
	}

	payloads := make([]replayRecordPayload, 0, len(records))
	for i := range records {
		payloads = append(payloads, toReplayRecordPayload(&records[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID.String(),
		"replays": payloads,
	})
}

func (h *ReplayHandler) HandleGetReplay(c *gin.Context) {
	ctx := c.Request.Context()

	recordingID := c.Param("recordingID")
	if recordingID == "" {
		respondError(c, http.StatusBadRequest, "recording id is required")
		return
	}

	rec, err := h.listingService.Record(ctx, recordingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordingNotFound) {
			respondError(c, http.StatusNotFound, "recording not found")
			return
		}
		slog.ErrorContext(ctx, "failed to look up replay",
			slog.String("recording_id", recordingID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "failed to look up replay")
		return
	}

	payload := toReplayRecordPayload(rec)
	c.JSON(http.StatusOK, gin.H{
		"replay":   payload,
		"playable": h.listingService.Playable(ctx, recordingID),
	})
}

func (h *ReplayHandler) HandleFeatureStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled": h.listingService.FeatureEnabled(c.Request.Context()),
	})
}
