// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler contains the demo services shipped with the server
// binary. They exist to exercise the full admit → dispatch → respond path
// and double as reference handler implementations.
package handler

import (
	"context"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/server"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Demo bundles the demo method handlers behind one service descriptor.
type Demo struct {
	log *logger.Logger
}

// NewDemo constructs the demo service.
func NewDemo(log *logger.Logger) *Demo {
	return &Demo{log: log}
}

// Desc returns the service descriptor to register with the engine.
func (d *Demo) Desc() server.ServiceDesc {
	return server.ServiceDesc{
		Name: "switchboard.Demo",
		Methods: map[string]server.Handler{
			"Echo":    server.HandlerFunc(d.echo),
			"Reverse": server.HandlerFunc(d.reverse),
		},
	}
}

// echo responds with the request payload unchanged.
func (d *Demo) echo(ctx context.Context, method string, call server.Call) {
	payload, err := call.Read(ctx)
	if err != nil {
		d.fail(method, call, err)
		return
	}

	if err := call.Respond(ctx, payload); err != nil {
		d.log.Error().Err(err).Str("method", method).Msg("responding")
	}
}

// reverse responds with the request payload bytes in reverse order.
func (d *Demo) reverse(ctx context.Context, method string, call server.Call) {
	payload, err := call.Read(ctx)
	if err != nil {
		d.fail(method, call, err)
		return
	}

	out := make([]byte, len(payload))
	for i, b := range payload {
		out[len(payload)-1-i] = b
	}

	if err := call.Respond(ctx, out); err != nil {
		d.log.Error().Err(err).Str("method", method).Msg("responding")
	}
}

func (d *Demo) fail(method string, call server.Call, err error) {
	d.log.Error().Err(err).Str("method", method).Msg("reading request")

	if err := call.Finish(status.New(codes.Internal, "failed to read request")); err != nil {
		d.log.Error().Err(err).Str("method", method).Msg("failing call")
	}
}
