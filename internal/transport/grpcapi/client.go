package grpcapi

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
)

// Client calls a remote initiative service. It satisfies Engine, so callers
// can swap a local engine for a remote one.
type Client struct {
	conn *grpc.ClientConn
}

var _ Engine = (*Client)(nil)

// Dial connects to target without transport security. Extra opts are appended.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
	conn, err := grpc.NewClient(target, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	err := c.conn.Invoke(ctx, FullMethod(method), req, resp, grpc.CallContentSubtype(codecName))
	if err != nil {
		return errors.FromGRPCError(err)
	}
	return nil
}

// StartInitiative implements Engine.
func (c *Client) StartInitiative(ctx context.Context, actor initiative.Actor, roomID int64) ([]*initiative.Entry, error) {
	var resp QueueResponse
	if err := c.invoke(WithActor(ctx, actor.UserID), MethodStartInitiative, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// NextTurn implements Engine.
func (c *Client) NextTurn(ctx context.Context, actor initiative.Actor, roomID int64) (*initiative.Entry, error) {
	var resp EntryResponse
	if err := c.invoke(WithActor(ctx, actor.UserID), MethodNextTurn, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// ResetInitiative implements Engine.
func (c *Client) ResetInitiative(ctx context.Context, actor initiative.Actor, roomID int64) error {
	return c.invoke(WithActor(ctx, actor.UserID), MethodResetInitiative, &RoomRequest{RoomID: roomID}, &Empty{})
}

// RollForCharacter implements Engine.
func (c *Client) RollForCharacter(ctx context.Context, actor initiative.Actor, roomID, characterID int64) (*initiative.Entry, error) {
	var resp EntryResponse
	req := &RollRequest{RoomID: roomID, CharacterID: characterID}
	if err := c.invoke(WithActor(ctx, actor.UserID), MethodRollForCharacter, req, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// RollForRoom implements Engine.
func (c *Client) RollForRoom(ctx context.Context, actor initiative.Actor, roomID int64) ([]*initiative.Entry, error) {
	var resp QueueResponse
	if err := c.invoke(WithActor(ctx, actor.UserID), MethodRollForRoom, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Queue implements Engine.
func (c *Client) Queue(ctx context.Context, roomID int64) ([]*initiative.Entry, error) {
	var resp QueueResponse
	if err := c.invoke(ctx, MethodQueue, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// CurrentTurn implements Engine.
func (c *Client) CurrentTurn(ctx context.Context, roomID int64) (*initiative.Entry, error) {
	var resp EntryResponse
	if err := c.invoke(ctx, MethodCurrentTurn, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// Snapshot implements Engine.
func (c *Client) Snapshot(ctx context.Context, roomID int64) (*initiative.Snapshot, error) {
	var resp SnapshotResponse
	if err := c.invoke(ctx, MethodSnapshot, &RoomRequest{RoomID: roomID}, &resp); err != nil {
		return nil, err
	}
	return resp.Snapshot, nil
}

// Health reports the serving status of the initiative service.
func (c *Client) Health(ctx context.Context) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	resp, err := grpc_health_v1.NewHealthClient(c.conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, errors.FromGRPCError(err)
	}
	return resp.GetStatus(), nil
}
