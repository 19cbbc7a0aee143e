package replaybackend

type StatusResponse struct {
	Enabled bool   `json:"enabled"`
	Version string `json:"version,omitempty"`
}

type StartRecordingRequest struct {
	RecordingID        string  `json:"recording_id"`
	World              string  `json:"world"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Z                  float64 `json:"z"`
	MaxDurationSeconds int     `json:"max_duration_seconds"`
}

type RecordingResponse struct {
	RecordingID string `json:"recording_id"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
