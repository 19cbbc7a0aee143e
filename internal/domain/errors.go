package domain

import "errors"

var (
	ErrRecordingActive    = errors.New("match already has an active recording")
	ErrNoActiveRecording  = errors.New("no active recording for match")
	ErrRecordingNotFound  = errors.New("recording not found")
	ErrAnchorUndetermined = errors.New("no usable spatial reference for anchor")
)
