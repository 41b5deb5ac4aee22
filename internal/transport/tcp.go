// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/server"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"
)

// TCP serves the engine's call stream over plain TCP, optionally secured
// with gRPC transport credentials.
//
// All deliveries to the engine (new-call callbacks, registration failures,
// the drain-complete callback) happen off the registering goroutine: on the
// pump goroutine while the transport is live, or on a short-lived goroutine
// once it has been disposed.
type TCP struct {
	log   *logger.Logger
	creds credentials.TransportCredentials

	lis  net.Listener
	port int

	regCh     chan server.NewCallFunc
	callCh    chan *call
	drainCh   chan func()
	drainDone chan struct{}
	closed    chan struct{}

	inFlight sync.WaitGroup

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	started bool

	disposeOnce sync.Once
}

// compile-time contract check
var _ server.Transport = (*TCP)(nil)

// New constructs an unbound TCP transport.
func New(log *logger.Logger) *TCP {
	return &TCP{
		log:       log,
		regCh:     make(chan server.NewCallFunc, 4),
		callCh:    make(chan *call),
		drainCh:   make(chan func(), 1),
		drainDone: make(chan struct{}, 1),
		closed:    make(chan struct{}),
		conns:     make(map[net.Conn]struct{}),
	}
}

// Bind listens on addr and returns the bound port. A TCP transport carries
// exactly one endpoint; a second Bind fails with ErrAlreadyBound.
func (t *TCP) Bind(addr string, creds credentials.TransportCredentials) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lis != nil {
		return 0, ErrAlreadyBound
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listening on %q: %w", addr, err)
	}

	t.lis = lis
	t.creds = creds
	t.port = lis.Addr().(*net.TCPAddr).Port

	return t.port, nil
}

// Start launches the accept loop and the event pump.
func (t *TCP) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lis == nil {
		return ErrNotBound
	}
	if t.started {
		return nil
	}

	t.started = true
	go t.acceptLoop(t.lis)
	go t.pump()

	t.log.Info().Int("port", t.port).Msg("transport accepting connections")
	return nil
}

// RequestNextCall registers deliver for the next inbound call. The engine
// keeps at most one registration outstanding, so the buffered channel never
// blocks the caller.
func (t *TCP) RequestNextCall(deliver server.NewCallFunc) {
	// Once closed is observable the pump may already be gone; fail the
	// registration on a fresh goroutine. The engine registers while holding
	// its own lock, so the callback must never run on the registering
	// goroutine.
	select {
	case <-t.closed:
		go deliver(ErrDraining, "", nil)
		return
	default:
	}

	select {
	case t.regCh <- deliver:
	case <-t.closed:
		go deliver(ErrDraining, "", nil)
	}
}

// Shutdown stops accepting connections and fires drained once every call
// delivered so far has been completed.
func (t *TCP) Shutdown(drained func()) {
	select {
	case t.drainCh <- drained:
	case <-t.closed:
		go drained()
	}
}

// Dispose releases the listener and every open connection. The engine calls
// it exactly once, after the drain completed or on the abrupt path.
func (t *TCP) Dispose() error {
	t.disposeOnce.Do(func() {
		close(t.closed)
		t.closeListener()

		t.mu.Lock()
		for conn := range t.conns {
			_ = conn.Close()
		}
		t.conns = make(map[net.Conn]struct{})
		t.mu.Unlock()

		t.log.Info().Msg("transport disposed")
	})

	return nil
}

func (t *TCP) closeListener() {
	t.mu.Lock()
	lis := t.lis
	t.lis = nil
	t.mu.Unlock()

	if lis != nil {
		_ = lis.Close()
	}
}

func (t *TCP) acceptLoop(lis net.Listener) {
	for {
		conn, err := lis.Accept()
		if err != nil {
			// listener closed by drain or dispose
			return
		}

		if t.creds != nil {
			secured, _, err := t.creds.ServerHandshake(conn)
			if err != nil {
				t.log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("TLS handshake failed")
				_ = conn.Close()
				continue
			}
			conn = secured
		}

		t.mu.Lock()
		t.conns[conn] = struct{}{}
		t.mu.Unlock()

		go t.readLoop(conn)
	}
}

// readLoop reads request frames off one connection, strictly one call at a
// time: the next frame is read only after the previous call completed.
func (t *TCP) readLoop(conn net.Conn) {
	defer func() {
		t.mu.Lock()
		delete(t.conns, conn)
		t.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		method, payload, err := readRequest(conn)
		if err != nil {
			return
		}

		c := newCall(conn, method, payload)
		select {
		case t.callCh <- c:
		case <-t.closed:
			return
		}

		select {
		case <-c.done:
		case <-t.closed:
			return
		}
	}
}

// pump is the transport's event goroutine. It pairs one-shot registrations
// with inbound calls, tracks delivered calls for the drain, and fires every
// callback the engine is owed exactly once.
func (t *TCP) pump() {
	var (
		regs     []server.NewCallFunc
		pending  []*call
		draining bool
		drained  func()
	)

	for {
		select {
		case r := <-t.regCh:
			regs = append(regs, r)

		case c := <-t.callCh:
			if draining {
				// Read after the drain began; never delivered upstream.
				t.failCall(c)
				continue
			}
			pending = append(pending, c)

		case d := <-t.drainCh:
			draining = true
			drained = d
			t.closeListener()

			// Calls read but never matched to a registration are not
			// in-flight from the engine's point of view; reject them.
			for _, c := range pending {
				t.failCall(c)
			}
			pending = nil

			go func() {
				t.inFlight.Wait()
				t.drainDone <- struct{}{}
			}()

		case <-t.drainDone:
			// Every delivered call has completed. Fail the leftover
			// registration (exactly-once per registration), then confirm.
			for _, r := range regs {
				r(ErrDraining, "", nil)
			}
			regs = nil

			if drained != nil {
				drained()
				drained = nil
			}

		case <-t.closed:
			// Drain registrations that raced the close, then fail them all.
			for {
				select {
				case r := <-t.regCh:
					regs = append(regs, r)
					continue
				default:
				}
				break
			}

			for _, r := range regs {
				r(ErrDraining, "", nil)
			}
			return
		}

		for !draining && len(regs) > 0 && len(pending) > 0 {
			r, c := regs[0], pending[0]
			regs, pending = regs[1:], pending[1:]

			t.inFlight.Add(1)
			c.release = t.inFlight.Done
			r(nil, c.method, c)
		}
	}
}

// failCall rejects a call the engine never saw. Completing a call writes to
// the peer, so the write runs on its own goroutine: a stalled client must
// not wedge the pump.
func (t *TCP) failCall(c *call) {
	go func() {
		if err := c.Finish(status.New(codes.Unavailable, "server is draining")); err != nil {
			t.log.Error().Err(err).Str("method", c.method).Msg("rejecting undelivered call")
		}
	}()
}
