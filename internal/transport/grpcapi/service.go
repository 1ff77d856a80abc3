// Package grpcapi exposes the initiative engine over gRPC. Messages are JSON
// encoded with a registered codec; the service descriptor is declared here.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "turnkeeper.initiative.v1.InitiativeService"

// Method names.
const (
	MethodStartInitiative  = "StartInitiative"
	MethodNextTurn         = "NextTurn"
	MethodResetInitiative  = "ResetInitiative"
	MethodRollForCharacter = "RollForCharacter"
	MethodRollForRoom      = "RollForRoom"
	MethodQueue            = "Queue"
	MethodCurrentTurn      = "CurrentTurn"
	MethodSnapshot         = "Snapshot"
)

// FullMethod returns "/<ServiceName>/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// InitiativeServer is the server API for the initiative service.
type InitiativeServer interface {
	StartInitiative(context.Context, *RoomRequest) (*QueueResponse, error)
	NextTurn(context.Context, *RoomRequest) (*EntryResponse, error)
	ResetInitiative(context.Context, *RoomRequest) (*Empty, error)
	RollForCharacter(context.Context, *RollRequest) (*EntryResponse, error)
	RollForRoom(context.Context, *RoomRequest) (*QueueResponse, error)
	Queue(context.Context, *RoomRequest) (*QueueResponse, error)
	CurrentTurn(context.Context, *RoomRequest) (*EntryResponse, error)
	Snapshot(context.Context, *RoomRequest) (*SnapshotResponse, error)
}

// RegisterInitiativeServer registers srv on s.
func RegisterInitiativeServer(s grpc.ServiceRegistrar, srv InitiativeServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InitiativeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodStartInitiative, InitiativeServer.StartInitiative),
		unary(MethodNextTurn, InitiativeServer.NextTurn),
		unary(MethodResetInitiative, InitiativeServer.ResetInitiative),
		unary(MethodRollForCharacter, InitiativeServer.RollForCharacter),
		unary(MethodRollForRoom, InitiativeServer.RollForRoom),
		unary(MethodQueue, InitiativeServer.Queue),
		unary(MethodCurrentTurn, InitiativeServer.CurrentTurn),
		unary(MethodSnapshot, InitiativeServer.Snapshot),
	},
	Streams: []grpc.StreamDesc{},
}

// unary builds the method descriptor protoc-gen-go-grpc would emit for method.
func unary[Req, Resp any](method string, call func(InitiativeServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(InitiativeServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(InitiativeServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
