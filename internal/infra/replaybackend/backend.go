// Package replaybackend integrates the optional external recording
// backend. The Adapter is the only surface the rest of the service sees;
// its methods degrade to boolean failure and never return an error.
package replaybackend

import "context"

//go:generate mockgen -source=backend.go -destination=mock.go -package=replaybackend

// Backend is the wire-level contract with the external recording service.
type Backend interface {
	// Status reports whether the backend is reachable and enabled.
	Status(ctx context.Context) (*StatusResponse, error)

	// StartRecording asks the backend to open a capture session.
	StartRecording(ctx context.Context, req *StartRecordingRequest) error

	// StopRecording terminates a session; save=false discards the capture.
	StopRecording(ctx context.Context, recordingID string, save bool) error

	// GetRecording fetches a stored recording's descriptor.
	GetRecording(ctx context.Context, recordingID string) (*RecordingResponse, error)
}
