// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"github.com/MKhiriev/go-switchboard/internal/metrics"
	"github.com/google/uuid"
)

// armLocked issues one "request next call" registration with the transport.
// Caller must hold s.mu. The armed flag and the lifecycle state are guarded
// by the same mutex the shutdown path takes, so "no new registration after
// shutdown is requested" is a synchronization point, not a race.
//
// RequestNextCall only registers a callback and returns; the delivery itself
// arrives later on the transport's event goroutine, so holding the mutex
// across the registration is safe.
func (s *Server) armLocked() {
	if s.state != stateStarted || s.armed {
		return
	}

	s.armed = true
	s.transport.RequestNextCall(s.onNewCall)
}

// onNewCall is the transport's new-call callback, invoked on its event
// goroutine. It re-arms the admission slot synchronously — before the call
// is handed to the executor — so the next delivery can overlap with this
// call's handler, then off-loads dispatch and returns immediately.
func (s *Server) onNewCall(err error, method string, call Call) {
	s.mu.Lock()
	s.armed = false
	s.armLocked()
	s.mu.Unlock()

	if err != nil {
		// Malformed delivery: the transport already failed this call on its
		// own path. Log and keep the pump alive; the slot is re-armed above.
		s.log.Error().Err(err).Msg("new-call notification carried an error")
		metrics.DispatchFailures.Inc()
		return
	}

	if call == nil {
		s.log.Error().Str("method", method).Msg("new-call notification without a call handle")
		metrics.DispatchFailures.Inc()
		return
	}

	id := uuid.NewString()
	metrics.CallsAdmitted.Inc()
	s.dispatch(id, method, call)
}
