package grpcapi

import (
	"context"
	"strconv"

	"google.golang.org/grpc/metadata"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
)

// ActorHeader carries the authenticated account id. Authentication happens
// upstream; this service trusts the header.
const ActorHeader = "x-actor-id"

// WithActor attaches userID to outgoing call metadata.
func WithActor(ctx context.Context, userID int64) context.Context {
	return metadata.AppendToOutgoingContext(ctx, ActorHeader, strconv.FormatInt(userID, 10))
}

// ActorFromContext reads the actor from incoming call metadata.
func ActorFromContext(ctx context.Context) (initiative.Actor, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return initiative.Actor{}, errors.Unauthenticated("missing call metadata")
	}
	vals := md.Get(ActorHeader)
	if len(vals) == 0 || vals[0] == "" {
		return initiative.Actor{}, errors.Unauthenticated("missing " + ActorHeader)
	}
	id, err := strconv.ParseInt(vals[0], 10, 64)
	if err != nil || id <= 0 {
		return initiative.Actor{}, errors.InvalidArgumentf("invalid %s %q", ActorHeader, vals[0])
	}
	return initiative.Actor{UserID: id}, nil
}
