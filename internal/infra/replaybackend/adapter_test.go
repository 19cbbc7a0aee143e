package replaybackend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/arenakit/match-replay-service/internal/domain"
)

func TestInitializeBindFailureIsPermanent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBackend := NewMockBackend(ctrl)
	mockBackend.EXPECT().
		Status(gomock.Any()).
		Return(nil, errors.New("connection refused"))

	adapter := NewAdapter(mockBackend)
	ctx := context.Background()

	if adapter.Initialize(ctx) {
		t.Fatal("expected bind to fail")
	}

	// No further backend calls happen once the bind failed.
	if adapter.IsAvailable(ctx) {
		t.Error("adapter should be permanently unavailable")
	}
	if adapter.StartRecording(ctx, "r1", domain.SpatialPoint{}, 600) {
		t.Error("start should fail without a bind")
	}
	if adapter.StopRecording(ctx, "r1", true) {
		t.Error("stop should fail without a bind")
	}
	if adapter.LookupRecording(ctx, "r1") {
		t.Error("lookup should fail without a bind")
	}
}

func TestInitializeWithoutBackend(t *testing.T) {
	adapter := NewAdapter(nil)
	ctx := context.Background()

	if adapter.Initialize(ctx) {
		t.Error("nil backend must not bind")
	}
	if adapter.IsAvailable(ctx) {
		t.Error("nil backend must not be available")
	}
}

func TestIsAvailableTracksBackendHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBackend := NewMockBackend(ctrl)
	gomock.InOrder(
		mockBackend.EXPECT().Status(gomock.Any()).Return(&StatusResponse{Enabled: true}, nil),
		mockBackend.EXPECT().Status(gomock.Any()).Return(&StatusResponse{Enabled: true}, nil),
		mockBackend.EXPECT().Status(gomock.Any()).Return(&StatusResponse{Enabled: false}, nil),
		mockBackend.EXPECT().Status(gomock.Any()).Return(nil, errors.New("timeout")),
	)

	adapter := NewAdapter(mockBackend)
	ctx := context.Background()

	if !adapter.Initialize(ctx) {
		t.Fatal("expected bind to succeed")
	}

	// Health is re-read on each call, not cached from the bind.
	if !adapter.IsAvailable(ctx) {
		t.Error("expected available while backend enabled")
	}
	if adapter.IsAvailable(ctx) {
		t.Error("expected unavailable once backend disabled itself")
	}
	if adapter.IsAvailable(ctx) {
		t.Error("expected unavailable on status error")
	}
}

func TestStartRecordingConvertsErrorsToFalse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBackend := NewMockBackend(ctrl)
	mockBackend.EXPECT().Status(gomock.Any()).Return(&StatusResponse{Enabled: true}, nil)
	mockBackend.EXPECT().
		StartRecording(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *StartRecordingRequest) error {
			if req.RecordingID != "r1" {
				t.Errorf("unexpected recording id: %q", req.RecordingID)
			}
			if req.World != "arena" || req.X != 5 {
				t.Errorf("unexpected anchor: %+v", req)
			}
			return errors.New("backend full")
		})

	adapter := NewAdapter(mockBackend)
	ctx := context.Background()
	if !adapter.Initialize(ctx) {
		t.Fatal("expected bind to succeed")
	}

	anchor := domain.SpatialPoint{World: "arena", X: 5, Y: 64, Z: 0}
	if adapter.StartRecording(ctx, "r1", anchor, 600) {
		t.Error("expected false on backend error")
	}
}

func TestStopRecordingPassesSaveFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBackend := NewMockBackend(ctrl)
	mockBackend.EXPECT().Status(gomock.Any()).Return(&StatusResponse{Enabled: true}, nil)
	mockBackend.EXPECT().StopRecording(gomock.Any(), "r1", false).Return(nil)

	adapter := NewAdapter(mockBackend)
	ctx := context.Background()
	if !adapter.Initialize(ctx) {
		t.Fatal("expected bind to succeed")
	}

	if !adapter.StopRecording(ctx, "r1", false) {
		t.Error("expected stop to succeed")
	}
}

func TestGenerateRecordingID(t *testing.T) {
	adapter := NewAdapter(nil)

	id1 := adapter.GenerateRecordingID("match-7", nil)
	id2 := adapter.GenerateRecordingID("match-7", nil)

	if !strings.HasPrefix(id1, "replay_match-7_") {
		t.Errorf("unexpected id shape: %q", id1)
	}
	if id1 == id2 {
		t.Error("ids for the same match must not collide")
	}
}
