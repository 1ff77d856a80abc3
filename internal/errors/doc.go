// Package errors provides the coded error taxonomy shared by the initiative
// engine, storage adapters and the gRPC transport.
//
// Engine operations return *Error values carrying a Code. The transport maps
// codes to gRPC status codes with ToGRPCError and clients map them back with
// FromGRPCError, so callers can branch on IsNotFound or IsPermissionDenied
// without caring which side of the wire produced the failure.
package errors
