package grpcapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apperrors "github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
	grpcapimock "github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi/mock"
)

func actorCtx(userID string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(grpcapi.ActorHeader, userID))
}

func newMockHandler(t *testing.T) (*grpcapi.Handler, *grpcapimock.MockEngine) {
	t.Helper()
	engine := grpcapimock.NewMockEngine(gomock.NewController(t))
	h, err := grpcapi.NewHandler(&grpcapi.HandlerConfig{Engine: engine})
	require.NoError(t, err)
	return h, engine
}

func TestNewHandler_Validation(t *testing.T) {
	_, err := grpcapi.NewHandler(nil)
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = grpcapi.NewHandler(&grpcapi.HandlerConfig{})
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestHandler_StartInitiative_PassesActor(t *testing.T) {
	h, engine := newMockHandler(t)
	queue := []*initiative.Entry{{ID: 1, CharacterName: "Alice"}}
	engine.EXPECT().StartInitiative(gomock.Any(), initiative.Actor{UserID: 7}, int64(3)).Return(queue, nil)

	resp, err := h.StartInitiative(actorCtx("7"), &grpcapi.RoomRequest{RoomID: 3})
	require.NoError(t, err)
	assert.Equal(t, queue, resp.Entries)
}

func TestHandler_ActorMetadata(t *testing.T) {
	h, _ := newMockHandler(t)

	_, err := h.NextTurn(context.Background(), &grpcapi.RoomRequest{RoomID: 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.NextTurn(actorCtx("abc"), &grpcapi.RoomRequest{RoomID: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.NextTurn(actorCtx("-4"), &grpcapi.RoomRequest{RoomID: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHandler_RejectsBadIDs(t *testing.T) {
	h, _ := newMockHandler(t)

	_, err := h.Queue(context.Background(), &grpcapi.RoomRequest{RoomID: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.RollForCharacter(actorCtx("1"), &grpcapi.RollRequest{RoomID: 1, CharacterID: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHandler_MapsEngineErrors(t *testing.T) {
	h, engine := newMockHandler(t)
	engine.EXPECT().ResetInitiative(gomock.Any(), gomock.Any(), int64(2)).
		Return(apperrors.PermissionDenied("only the room master may manage initiative"))
	engine.EXPECT().CurrentTurn(gomock.Any(), int64(9)).Return(nil, apperrors.NotFound("room 9 not found"))
	engine.EXPECT().Snapshot(gomock.Any(), int64(4)).Return(nil, context.DeadlineExceeded)

	_, err := h.ResetInitiative(actorCtx("5"), &grpcapi.RoomRequest{RoomID: 2})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.CurrentTurn(context.Background(), &grpcapi.RoomRequest{RoomID: 9})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "room 9 not found", status.Convert(err).Message())

	_, err = h.Snapshot(context.Background(), &grpcapi.RoomRequest{RoomID: 4})
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestHandler_NilEntryIsNotAnError(t *testing.T) {
	h, engine := newMockHandler(t)
	engine.EXPECT().NextTurn(gomock.Any(), gomock.Any(), int64(1)).Return(nil, nil)

	resp, err := h.NextTurn(actorCtx("1"), &grpcapi.RoomRequest{RoomID: 1})
	require.NoError(t, err)
	assert.Nil(t, resp.Entry)
}
