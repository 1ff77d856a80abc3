package grpcapi

import (
	"context"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
)

//go:generate mockgen -destination=mock/mock_engine.go -package=grpcapimock github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi Engine

// Engine is the subset of *initiative.Engine the handler serves.
type Engine interface {
	StartInitiative(ctx context.Context, actor initiative.Actor, roomID int64) ([]*initiative.Entry, error)
	NextTurn(ctx context.Context, actor initiative.Actor, roomID int64) (*initiative.Entry, error)
	ResetInitiative(ctx context.Context, actor initiative.Actor, roomID int64) error
	RollForCharacter(ctx context.Context, actor initiative.Actor, roomID, characterID int64) (*initiative.Entry, error)
	RollForRoom(ctx context.Context, actor initiative.Actor, roomID int64) ([]*initiative.Entry, error)
	Queue(ctx context.Context, roomID int64) ([]*initiative.Entry, error)
	CurrentTurn(ctx context.Context, roomID int64) (*initiative.Entry, error)
	Snapshot(ctx context.Context, roomID int64) (*initiative.Snapshot, error)
}

// HandlerConfig holds the Handler's dependencies.
type HandlerConfig struct {
	Engine Engine
}

// Validate checks required dependencies.
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Engine == nil {
		return errors.InvalidArgument("engine cannot be nil")
	}
	return nil
}

// Handler implements InitiativeServer on top of an Engine.
type Handler struct {
	engine Engine
}

var _ InitiativeServer = (*Handler)(nil)

// NewHandler creates a Handler.
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{engine: cfg.Engine}, nil
}

func validRoom(roomID int64) error {
	if roomID <= 0 {
		return errors.InvalidArgumentf("room_id must be positive, got %d", roomID)
	}
	return nil
}

// StartInitiative implements InitiativeServer.
func (h *Handler) StartInitiative(ctx context.Context, req *RoomRequest) (*QueueResponse, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	queue, err := h.engine.StartInitiative(ctx, actor, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &QueueResponse{Entries: queue}, nil
}

// NextTurn implements InitiativeServer.
func (h *Handler) NextTurn(ctx context.Context, req *RoomRequest) (*EntryResponse, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	next, err := h.engine.NextTurn(ctx, actor, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &EntryResponse{Entry: next}, nil
}

// ResetInitiative implements InitiativeServer.
func (h *Handler) ResetInitiative(ctx context.Context, req *RoomRequest) (*Empty, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := h.engine.ResetInitiative(ctx, actor, req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &Empty{}, nil
}

// RollForCharacter implements InitiativeServer.
func (h *Handler) RollForCharacter(ctx context.Context, req *RollRequest) (*EntryResponse, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.CharacterID <= 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgumentf("character_id must be positive, got %d", req.CharacterID))
	}
	entry, err := h.engine.RollForCharacter(ctx, actor, req.RoomID, req.CharacterID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &EntryResponse{Entry: entry}, nil
}

// RollForRoom implements InitiativeServer.
func (h *Handler) RollForRoom(ctx context.Context, req *RoomRequest) (*QueueResponse, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	entries, err := h.engine.RollForRoom(ctx, actor, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &QueueResponse{Entries: entries}, nil
}

// Queue implements InitiativeServer.
func (h *Handler) Queue(ctx context.Context, req *RoomRequest) (*QueueResponse, error) {
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	queue, err := h.engine.Queue(ctx, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &QueueResponse{Entries: queue}, nil
}

// CurrentTurn implements InitiativeServer.
func (h *Handler) CurrentTurn(ctx context.Context, req *RoomRequest) (*EntryResponse, error) {
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	cur, err := h.engine.CurrentTurn(ctx, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &EntryResponse{Entry: cur}, nil
}

// Snapshot implements InitiativeServer.
func (h *Handler) Snapshot(ctx context.Context, req *RoomRequest) (*SnapshotResponse, error) {
	if err := validRoom(req.RoomID); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	snap, err := h.engine.Snapshot(ctx, req.RoomID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SnapshotResponse{Snapshot: snap}, nil
}
