package handler

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/status"
)

// stubCall feeds a fixed payload in and records what comes back.
type stubCall struct {
	payload   []byte
	readErr   error
	responded [][]byte
	finished  []*status.Status
}

func (c *stubCall) Read(ctx context.Context) ([]byte, error) {
	return c.payload, c.readErr
}

func (c *stubCall) Respond(ctx context.Context, payload []byte) error {
	c.responded = append(c.responded, payload)
	return nil
}

func (c *stubCall) Finish(st *status.Status) error {
	c.finished = append(c.finished, st)
	return nil
}

func serve(t *testing.T, method string, call server.Call) {
	t.Helper()

	desc := NewDemo(logger.Nop()).Desc()
	h, ok := desc.Methods[method]
	require.True(t, ok, "method %q not in descriptor", method)

	h.Serve(context.Background(), desc.Name+"/"+method, call)
}

func TestDemo_Echo(t *testing.T) {
	call := &stubCall{payload: []byte("hello")}
	serve(t, "Echo", call)

	require.Len(t, call.responded, 1)
	assert.Equal(t, []byte("hello"), call.responded[0])
	assert.Empty(t, call.finished)
}

func TestDemo_Reverse(t *testing.T) {
	call := &stubCall{payload: []byte("abc")}
	serve(t, "Reverse", call)

	require.Len(t, call.responded, 1)
	assert.Equal(t, []byte("cba"), call.responded[0])
}

func TestDemo_ReverseEmptyPayload(t *testing.T) {
	call := &stubCall{}
	serve(t, "Reverse", call)

	require.Len(t, call.responded, 1)
	assert.Empty(t, call.responded[0])
}

func TestDemo_ReadFailureFinishesCall(t *testing.T) {
	call := &stubCall{readErr: assert.AnError}
	serve(t, "Echo", call)

	assert.Empty(t, call.responded)
	require.Len(t, call.finished, 1)
}
