package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arenakit/match-replay-service/internal/domain"
)

const (
	activeKeyPrefix    = "replay:active:"
	recordingKeyPrefix = "replay:recording:"
	userIndexKeyPrefix = "replay:user:"

	// Recording bodies outlive the per-user index so a record evicted from
	// one participant's history stays resolvable for the others. The index
	// is a sorted set scored by start time, bounded per save; the bodies
	// are bounded by this retention window.
	recordingTTL = 30 * 24 * time.Hour
	activeTTL    = 24 * time.Hour
)

type recordingRecord struct {
	RecordingID   string      `json:"recording_id"`
	MatchID       string      `json:"match_id"`
	Participants  []uuid.UUID `json:"participants"`
	StartedAt     time.Time   `json:"started_at"`
	EndedAt       time.Time   `json:"ended_at,omitempty"`
	ActivityLabel string      `json:"activity_label,omitempty"`
	VenueLabel    string      `json:"venue_label,omitempty"`
}

func toRecordingRecord(rec *domain.MatchReplayRecord) recordingRecord {
	return recordingRecord{
		RecordingID:   rec.RecordingID,
		MatchID:       rec.MatchID,
		Participants:  rec.Participants,
		StartedAt:     rec.StartedAt,
		EndedAt:       rec.EndedAt,
		ActivityLabel: rec.ActivityLabel,
		VenueLabel:    rec.VenueLabel,
	}
}

func (r recordingRecord) toDomain() *domain.MatchReplayRecord {
	return &domain.MatchReplayRecord{
		RecordingID:   r.RecordingID,
		MatchID:       r.MatchID,
		Participants:  r.Participants,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		ActivityLabel: r.ActivityLabel,
		VenueLabel:    r.VenueLabel,
	}
}

type replayRepository struct {
	client     *redis.Client
	maxPerUser int
}

// NewReplayRepository returns a redis-backed replay history. The per-user
// index is a sorted set scored by start time, trimmed to the maxPerUser
// most recently started records on every save.
func NewReplayRepository(client *redis.Client, maxPerUser int) domain.ReplayHistory {
	return &replayRepository{
		client:     client,
		maxPerUser: maxPerUser,
	}
}

func (r *replayRepository) BeginRecording(ctx context.Context, rec *domain.MatchReplayRecord) error {
	if rec == nil {
		return ErrInvalidRecordData
	}

	activeKey := activeKeyPrefix + rec.MatchID

	ok, err := r.client.SetNX(ctx, activeKey, rec.RecordingID, activeTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRecordingActive
	}

	data, err := json.Marshal(toRecordingRecord(rec))
	if err != nil {
		return ErrInvalidRecordData
	}

	if err := r.client.Set(ctx, recordingKeyPrefix+rec.RecordingID, data, recordingTTL).Err(); err != nil {
		// Roll back the active marker so the match is not wedged.
		r.client.Del(ctx, activeKey)
		return err
	}

	return nil
}

func (r *replayRepository) ActiveRecording(ctx context.Context, matchID string) (string, error) {
	recordingID, err := r.client.Get(ctx, activeKeyPrefix+matchID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNoActiveRecording
		}
		return "", err
	}

	return recordingID, nil
}

func (r *replayRepository) CompleteAndSave(ctx context.Context, matchID string) (*domain.MatchReplayRecord, error) {
	// GETDEL claims the active entry atomically; a concurrent save for the
	// same match loses the claim and settles as ErrNoActiveRecording.
	recordingID, err := r.client.GetDel(ctx, activeKeyPrefix+matchID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoActiveRecording
		}
		return nil, err
	}

	rec, err := r.LookupByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	rec.EndedAt = time.Now()

	data, err := json.Marshal(toRecordingRecord(rec))
	if err != nil {
		return nil, ErrInvalidRecordData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordingKeyPrefix+recordingID, data, recordingTTL)
	for _, userID := range rec.Participants {
		userKey := userIndexKeyPrefix + userID.String()
		pipe.ZAdd(ctx, userKey, redis.Z{
			Score:  float64(rec.StartedAt.UnixMilli()),
			Member: recordingID,
		})
		// Keep the maxPerUser most recently started; drop the rest.
		pipe.ZRemRangeByRank(ctx, userKey, 0, int64(-(r.maxPerUser + 1)))
		pipe.Expire(ctx, userKey, recordingTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *replayRepository) CompleteAndDiscard(ctx context.Context, matchID string) error {
	recordingID, err := r.client.GetDel(ctx, activeKeyPrefix+matchID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Nothing was active; the contract makes this a no-op.
			return nil
		}
		return err
	}

	return r.client.Del(ctx, recordingKeyPrefix+recordingID).Err()
}

func (r *replayRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.MatchReplayRecord, error) {
	// Highest start-time score first.
	ids, err := r.client.ZRevRange(ctx, userIndexKeyPrefix+userID.String(), 0, int64(r.maxPerUser-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.MatchReplayRecord{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, recordingKeyPrefix+id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.MatchReplayRecord, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Body expired out of the retention window, skip the index entry.
			continue
		}
		var record recordingRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, ErrInvalidRecordData
		}
		records = append(records, *record.toDomain())
	}

	return records, nil
}

func (r *replayRepository) LookupByID(ctx context.Context, recordingID string) (*domain.MatchReplayRecord, error) {
	data, err := r.client.Get(ctx, recordingKeyPrefix+recordingID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRecordingNotFound
		}
		return nil, err
	}

	var record recordingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidRecordData
	}

	return record.toDomain(), nil
}

func (r *replayRepository) ActiveSnapshot(ctx context.Context) (map[string]string, error) {
	snapshot := make(map[string]string)

	iter := r.client.Scan(ctx, 0, activeKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		matchID := key[len(activeKeyPrefix):]

		recordingID, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		snapshot[matchID] = recordingID
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *replayRepository) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, activeKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	return r.client.Del(ctx, keys...).Err()
}
