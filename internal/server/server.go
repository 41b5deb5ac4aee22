// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"google.golang.org/grpc/credentials"
)

// Server is the lifecycle state machine around one transport.
//
// The mutex guards the lifecycle state, the handler registry (mutable only
// in the created state) and the admission slot flag. It is held only for
// flag checks and non-blocking transport registrations; the transport's
// event goroutine takes the same mutex on every delivery, so no blocking
// call is ever made while holding it.
type Server struct {
	mu        sync.Mutex
	state     lifecycleState
	armed     bool // one RequestNextCall registration is outstanding
	handlers  registry
	transport Transport

	exec Executor
	log  *logger.Logger

	done        *shutdownSignal
	disposeOnce sync.Once
}

// Option customizes a Server at construction time.
type Option func(*Server)

// WithLogger replaces the default stdout logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithExecutor replaces the default goroutine-per-call executor, e.g. with
// the bounded pool from internal/workers.
func WithExecutor(exec Executor) Option {
	return func(s *Server) { s.exec = exec }
}

// goExecutor is the default Executor: one fresh goroutine per dispatch.
type goExecutor struct{}

func (goExecutor) Go(task func()) { go task() }

// New allocates a Server in the created state, owning t for the rest of its
// life. The caller registers services and ports, then calls Start exactly
// once.
func New(t Transport, opts ...Option) *Server {
	s := &Server{
		state:     stateCreated,
		handlers:  make(registry),
		transport: t,
		exec:      goExecutor{},
		log:       logger.NewLogger("server"),
		done:      newShutdownSignal(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddService merges the method bindings of desc into the registry.
// Only valid in the created state: once the server has started the registry
// is read concurrently by dispatch and must stay frozen.
func (s *Server) AddService(desc ServiceDesc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateCreated {
		return fmt.Errorf("%w: cannot add service %q in state %s", ErrInvalidState, desc.Name, s.state)
	}

	if err := s.handlers.merge(desc); err != nil {
		return err
	}

	s.log.Debug().Str("service", desc.Name).Int("methods", len(desc.Methods)).Msg("service registered")
	return nil
}

// ListenOn asks the transport to bind addr, optionally secured with creds
// (nil means plaintext). It returns the bound port. Only valid in the
// created state.
func (s *Server) ListenOn(addr string, creds credentials.TransportCredentials) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateCreated {
		return 0, fmt.Errorf("%w: cannot bind %q in state %s", ErrInvalidState, addr, s.state)
	}

	port, err := s.transport.Bind(addr, creds)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBind, addr, err)
	}

	s.log.Info().Str("address", addr).Int("port", port).Msg("listening port bound")
	return port, nil
}

// Start transitions created → started, starts the transport and arms the
// first admission request. It may succeed at most once; a transport start
// failure leaves the server in the created state.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateCreated {
		return fmt.Errorf("%w: cannot start in state %s", ErrInvalidState, s.state)
	}

	s.state = stateStarted

	if err := s.transport.Start(); err != nil {
		// stay in created: the admission loop never armed, and stop
		// requests against a never-started transport are rejected
		s.state = stateCreated
		return fmt.Errorf("starting transport: %w", err)
	}

	s.armLocked()
	s.log.Info().Msg("server started")
	return nil
}

// GracefulStop transitions started → shutting-down, asks the transport to
// drain and parks the calling goroutine on the shutdown signal. When the
// transport confirms that no further calls will be delivered, the listener
// is released exactly once and the state becomes terminated.
//
// It may be called at most once, and only after Start. If ctx expires first,
// the drain is abandoned and the transport is released abruptly, exactly as
// Kill would — in-flight calls lose their drain guarantee.
func (s *Server) GracefulStop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateStarted {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot stop in state %s", ErrInvalidState, state)
	}
	s.state = stateShuttingDown
	s.mu.Unlock()

	s.log.Info().Msg("shutdown requested, draining in-flight calls")
	s.transport.Shutdown(s.onDrained)

	select {
	case <-s.done.C():
	case <-ctx.Done():
		s.log.Warn().Msg("drain abandoned, releasing transport abruptly")
		s.dispose()
		s.terminate()
		return ctx.Err()
	}

	s.dispose()
	s.terminate()
	s.log.Info().Msg("server terminated gracefully")
	return nil
}

// Kill releases the transport immediately, bypassing the drain. It is meant
// for abnormal termination paths only; calls still in flight are abandoned.
func (s *Server) Kill() {
	s.log.Warn().Msg("server killed")
	s.dispose()
	s.terminate()
}

// Done returns the shutdown signal channel. It is closed once the transport
// has confirmed the drain, independently of whether any goroutine is parked
// inside GracefulStop — external observers may watch it directly.
func (s *Server) Done() <-chan struct{} {
	return s.done.C()
}

// onDrained is the transport's drain-complete callback, invoked on its event
// goroutine. A second invocation is a transport defect: it is logged, never
// allowed to panic across the delivery boundary.
func (s *Server) onDrained() {
	if err := s.done.complete(); err != nil {
		s.log.Error().Err(err).Msg("duplicate drain notification ignored")
	}
}

// dispose releases the transport resource exactly once, shared by the
// graceful and abrupt paths.
func (s *Server) dispose() {
	s.disposeOnce.Do(func() {
		if err := s.transport.Dispose(); err != nil {
			s.log.Error().Err(err).Msg("disposing transport")
		}
	})
}

func (s *Server) terminate() {
	s.mu.Lock()
	s.state = stateTerminated
	s.mu.Unlock()
}
