// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// dispatch resolves the handler for method and submits the invocation to the
// executor. It runs on the transport's event goroutine and must return
// promptly: the only work done here is a map lookup and a task submission.
//
// The registry is frozen once the server leaves the created state, so the
// lookup needs no lock.
func (s *Server) dispatch(id, method string, call Call) {
	h, ok := s.handlers[method]
	if !ok {
		metrics.UnknownMethods.Inc()
		s.log.Warn().Str("call_id", id).Str("method", method).Msg("no handler for method")
		h = notFoundHandler{}
	}

	log := &logger.Logger{Logger: s.log.With().Str("call_id", id).Str("method", method).Logger()}

	metrics.InFlightDispatches.Inc()
	s.exec.Go(func() {
		defer metrics.InFlightDispatches.Dec()
		defer func() {
			if r := recover(); r != nil {
				// A handler panic must never unwind into the executor or,
				// worse, the event goroutine. Fail the one affected call and
				// keep serving the rest.
				metrics.DispatchFailures.Inc()
				log.Error().Any("panic", r).Msg("handler panicked")

				if err := call.Finish(status.New(codes.Internal, "internal error")); err != nil {
					log.Error().Err(err).Msg("failing panicked call")
				}
			}
		}()

		ctx := log.Logger.WithContext(context.Background())
		h.Serve(ctx, method, call)
	})
}

// notFoundHandler terminates calls for unregistered methods. Unknown methods
// are a normal, reportable outcome: the call is completed with an
// Unimplemented status and the server keeps admitting.
type notFoundHandler struct{}

func (notFoundHandler) Serve(ctx context.Context, method string, call Call) {
	st := status.Newf(codes.Unimplemented, "unknown method %q", method)
	if err := call.Finish(st); err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("completing unknown-method call")
	}
}
