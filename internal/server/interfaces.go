// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

//go:generate mockgen -source=interfaces.go -destination=../mock/server_mock.go -package=mock

import (
	"context"

	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"
)

// NewCallFunc is the one-shot callback registered via
// [Transport.RequestNextCall]. The transport invokes it exactly once per
// registration, on its own event goroutine: either with a nil error, the
// method name and a live call, or with a non-nil error (and a nil call) when
// the registration cannot be satisfied, e.g. because the transport is
// draining.
type NewCallFunc func(err error, method string, call Call)

// Transport is the listener collaborator the engine drives. Implementations
// own all wire-level concerns (framing, TLS handshake, connection handling);
// the engine only sequences admission, dispatch and teardown around them.
//
// RequestNextCall and Shutdown register callbacks and return immediately;
// the callbacks fire later on the transport's event goroutine, never
// synchronously from the registering call.
type Transport interface {
	// Bind asks the transport to listen on addr, optionally securing the
	// endpoint with creds. It returns the bound port. Only valid before
	// Start.
	Bind(addr string, creds credentials.TransportCredentials) (int, error)

	// Start begins accepting connections on all bound addresses.
	Start() error

	// RequestNextCall registers deliver to receive the next inbound call.
	// Each registration is consumed by exactly one delivery.
	RequestNextCall(deliver NewCallFunc)

	// Shutdown stops accepting new calls and invokes drained exactly once,
	// after every call delivered so far has finished.
	Shutdown(drained func())

	// Dispose releases the listener and all transport resources. Safe to
	// call once; the engine guarantees it is never called twice.
	Dispose() error
}

// Call is one admitted inbound call. The handler that receives it owns all
// further interaction with it and must complete it exactly once, either via
// Respond or Finish.
type Call interface {
	// Read returns the request payload.
	Read(ctx context.Context) ([]byte, error)

	// Respond completes the call successfully with the given payload.
	Respond(ctx context.Context, payload []byte) error

	// Finish completes the call with the given status and no payload.
	Finish(st *status.Status) error
}

// Handler executes one call for a method it was registered under.
// Serve runs on an executor task, never on the transport's event goroutine,
// and is responsible for completing the call.
type Handler interface {
	Serve(ctx context.Context, method string, call Call)
}

// HandlerFunc adapts a plain function to the [Handler] interface.
type HandlerFunc func(ctx context.Context, method string, call Call)

// Serve calls f(ctx, method, call).
func (f HandlerFunc) Serve(ctx context.Context, method string, call Call) {
	f(ctx, method, call)
}

// Executor runs handler invocations on units of concurrency independent of
// the transport's event goroutine. Go must not block the caller.
type Executor interface {
	Go(task func())
}
