// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"context"
	"net"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// call is one inbound request frame bound to its connection. It satisfies
// the engine's Call contract: the request payload is already in memory when
// the call is delivered, and completion writes exactly one response frame.
type call struct {
	conn    net.Conn
	method  string
	payload []byte

	once sync.Once
	done chan struct{} // closed on completion; gates the next frame on conn

	// release is set by the pump when the call is delivered to the engine;
	// it decrements the transport's in-flight counter. Calls rejected before
	// delivery leave it nil.
	release func()
}

func newCall(conn net.Conn, method string, payload []byte) *call {
	return &call{
		conn:    conn,
		method:  method,
		payload: payload,
		done:    make(chan struct{}),
	}
}

// Read returns the request payload.
func (c *call) Read(ctx context.Context) ([]byte, error) {
	return c.payload, nil
}

// Respond completes the call successfully with payload.
func (c *call) Respond(ctx context.Context, payload []byte) error {
	return c.complete(uint32(codes.OK), "", payload)
}

// Finish completes the call with st and no payload.
func (c *call) Finish(st *status.Status) error {
	if st == nil {
		st = status.New(codes.OK, "")
	}

	return c.complete(uint32(st.Code()), st.Message(), nil)
}

// complete writes the response frame exactly once. A second completion
// attempt returns ErrCallCompleted without touching the connection.
func (c *call) complete(code uint32, msg string, payload []byte) error {
	err := ErrCallCompleted
	c.once.Do(func() {
		err = writeResponse(c.conn, code, msg, payload)
		if c.release != nil {
			c.release()
		}
		close(c.done)
	})

	return err
}
