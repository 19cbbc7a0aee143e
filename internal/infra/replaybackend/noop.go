package replaybackend

import (
	"context"
	"errors"
)

var errCapabilityAbsent = errors.New("replay backend not present")

// noopBackend stands in when no backend is configured. Status reports
// disabled, so the adapter binds but never records.
type noopBackend struct{}

func NewNoopBackend() Backend {
	return &noopBackend{}
}

func (n *noopBackend) Status(_ context.Context) (*StatusResponse, error) {
	return &StatusResponse{Enabled: false}, nil
}

func (n *noopBackend) StartRecording(_ context.Context, _ *StartRecordingRequest) error {
	return errCapabilityAbsent
}

func (n *noopBackend) StopRecording(_ context.Context, _ string, _ bool) error {
	return errCapabilityAbsent
}

func (n *noopBackend) GetRecording(_ context.Context, _ string) (*RecordingResponse, error) {
	return nil, errCapabilityAbsent
}
