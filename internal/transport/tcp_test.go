// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

type delivery struct {
	err    error
	method string
	call   server.Call
}

func startTransport(t *testing.T) (*TCP, int) {
	t.Helper()

	tr := New(logger.Nop())
	port, err := tr.Bind("127.0.0.1:0", nil)
	require.NoError(t, err)
	require.NoError(t, tr.Start())
	t.Cleanup(func() { _ = tr.Dispose() })

	return tr, port
}

func dial(t *testing.T, port int) net.Conn {
	t.Helper()

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func nextCall(t *testing.T, tr *TCP) <-chan delivery {
	t.Helper()

	ch := make(chan delivery, 1)
	tr.RequestNextCall(func(err error, method string, call server.Call) {
		ch <- delivery{err: err, method: method, call: call}
	})

	return ch
}

func receive(t *testing.T, ch <-chan delivery) delivery {
	t.Helper()

	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
		return delivery{}
	}
}

func TestFrame_RequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, "svc/Echo", []byte("hello")))

	method, payload, err := readRequest(&buf)
	require.NoError(t, err)
	assert.Equal(t, "svc/Echo", method)
	assert.Equal(t, []byte("hello"), payload)
}

func TestFrame_ResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResponse(&buf, uint32(codes.Unimplemented), "unknown method", nil))

	code, msg, payload, err := ReadResponse(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(codes.Unimplemented), code)
	assert.Equal(t, "unknown method", msg)
	assert.Empty(t, payload)
}

func TestFrame_OversizeMethod(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRequest(&buf, string(make([]byte, maxMethodLen+1)), nil)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestBind_Twice(t *testing.T) {
	tr := New(logger.Nop())
	_, err := tr.Bind("127.0.0.1:0", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Dispose() })

	_, err = tr.Bind("127.0.0.1:0", nil)
	require.ErrorIs(t, err, ErrAlreadyBound)
}

func TestStart_WithoutBind(t *testing.T) {
	tr := New(logger.Nop())
	require.ErrorIs(t, tr.Start(), ErrNotBound)
}

func TestCall_EndToEnd(t *testing.T) {
	tr, port := startTransport(t)
	ch := nextCall(t, tr)

	conn := dial(t, port)
	require.NoError(t, WriteRequest(conn, "svc/Echo", []byte("ping")))

	d := receive(t, ch)
	require.NoError(t, d.err)
	assert.Equal(t, "svc/Echo", d.method)

	payload, err := d.call.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), payload)

	require.NoError(t, d.call.Respond(context.Background(), []byte("pong")))

	code, msg, payload, err := ReadResponse(conn)
	require.NoError(t, err)
	assert.Equal(t, uint32(codes.OK), code)
	assert.Empty(t, msg)
	assert.Equal(t, []byte("pong"), payload)
}

func TestCall_SequentialOnOneConnection(t *testing.T) {
	tr, port := startTransport(t)
	conn := dial(t, port)

	for i := 0; i < 3; i++ {
		ch := nextCall(t, tr)
		require.NoError(t, WriteRequest(conn, "svc/Echo", []byte{byte(i)}))

		d := receive(t, ch)
		require.NoError(t, d.err)
		require.NoError(t, d.call.Respond(context.Background(), []byte{byte(i)}))

		code, _, payload, err := ReadResponse(conn)
		require.NoError(t, err)
		assert.Equal(t, uint32(codes.OK), code)
		assert.Equal(t, []byte{byte(i)}, payload)
	}
}

func TestCall_CompleteTwice(t *testing.T) {
	tr, port := startTransport(t)
	ch := nextCall(t, tr)

	conn := dial(t, port)
	require.NoError(t, WriteRequest(conn, "svc/Echo", nil))

	d := receive(t, ch)
	require.NoError(t, d.call.Respond(context.Background(), nil))

	err := d.call.Respond(context.Background(), nil)
	require.ErrorIs(t, err, ErrCallCompleted)
}

func TestShutdown_WaitsForInFlightCall(t *testing.T) {
	tr, port := startTransport(t)
	ch := nextCall(t, tr)

	conn := dial(t, port)
	require.NoError(t, WriteRequest(conn, "svc/Slow", []byte("work")))

	d := receive(t, ch)
	require.NoError(t, d.err)

	// a pending registration must fail once the drain completes
	pendingCh := nextCall(t, tr)

	drained := make(chan struct{})
	tr.Shutdown(func() { close(drained) })

	select {
	case <-drained:
		t.Fatal("drain completed while a call was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, d.call.Respond(context.Background(), []byte("done")))

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("drain never completed after the call finished")
	}

	pending := receive(t, pendingCh)
	require.ErrorIs(t, pending.err, ErrDraining)
	assert.Nil(t, pending.call)
}

func TestShutdown_StopsAccepting(t *testing.T) {
	tr, port := startTransport(t)

	drained := make(chan struct{})
	tr.Shutdown(func() { close(drained) })

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("drain never completed on an idle transport")
	}

	_, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 200*time.Millisecond)
	require.Error(t, err, "listener must be closed once the drain began")
}

func TestDispose_FailsPendingRegistration(t *testing.T) {
	tr, _ := startTransport(t)
	ch := nextCall(t, tr)

	require.NoError(t, tr.Dispose())

	d := receive(t, ch)
	require.Error(t, d.err)
	assert.True(t, errors.Is(d.err, ErrDraining))
}

func TestDispose_RegistrationFailureIsAsynchronous(t *testing.T) {
	tr, _ := startTransport(t)
	require.NoError(t, tr.Dispose())

	// Mirror the engine's admission path: the registering goroutine holds a
	// mutex the callback also takes. A delivery running synchronously inside
	// RequestNextCall would self-deadlock here instead of completing.
	var mu sync.Mutex
	ch := make(chan delivery, 1)

	mu.Lock()
	tr.RequestNextCall(func(err error, method string, call server.Call) {
		mu.Lock()
		defer mu.Unlock()
		ch <- delivery{err: err, method: method, call: call}
	})
	mu.Unlock()

	d := receive(t, ch)
	require.ErrorIs(t, d.err, ErrDraining)
	assert.Nil(t, d.call)
}

func TestShutdown_StalledClientDoesNotBlockDrain(t *testing.T) {
	tr, port := startTransport(t)
	ch := nextCall(t, tr)

	conn := dial(t, port)
	require.NoError(t, WriteRequest(conn, "svc/Slow", nil))

	d := receive(t, ch)
	require.NoError(t, d.err)

	// A call the engine never saw, on a pipe whose writes block until read:
	// rejecting it during the drain must not wedge the pump.
	client, srv := net.Pipe()
	t.Cleanup(func() { _ = client.Close(); _ = srv.Close() })
	tr.callCh <- newCall(srv, "svc/Stalled", nil)

	drained := make(chan struct{})
	tr.Shutdown(func() { close(drained) })

	require.NoError(t, d.call.Respond(context.Background(), []byte("done")))

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("drain blocked behind a client that accepts no writes")
	}
}

func TestDispose_Twice(t *testing.T) {
	tr, _ := startTransport(t)

	require.NoError(t, tr.Dispose())
	require.NoError(t, tr.Dispose())
}
