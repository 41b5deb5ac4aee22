// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire limits. A method name longer than maxMethodLen or a payload larger
// than maxPayloadLen fails the frame with ErrFrameTooLarge before any
// allocation happens.
const (
	maxMethodLen  = 1 << 10
	maxPayloadLen = 16 << 20
)

// Request frame layout (big-endian):
//
//	uint16 method length | method | uint32 payload length | payload
//
// Response frame layout:
//
//	uint32 status code | uint16 message length | message | uint32 payload length | payload

// readRequest reads one request frame from r.
func readRequest(r io.Reader) (method string, payload []byte, err error) {
	var mlen uint16
	if err = binary.Read(r, binary.BigEndian, &mlen); err != nil {
		return "", nil, err
	}
	if mlen > maxMethodLen {
		return "", nil, fmt.Errorf("%w: method length %d", ErrFrameTooLarge, mlen)
	}

	m := make([]byte, mlen)
	if _, err = io.ReadFull(r, m); err != nil {
		return "", nil, err
	}

	var plen uint32
	if err = binary.Read(r, binary.BigEndian, &plen); err != nil {
		return "", nil, err
	}
	if plen > maxPayloadLen {
		return "", nil, fmt.Errorf("%w: payload length %d", ErrFrameTooLarge, plen)
	}

	payload = make([]byte, plen)
	if _, err = io.ReadFull(r, payload); err != nil {
		return "", nil, err
	}

	return string(m), payload, nil
}

// writeResponse writes one response frame to w.
func writeResponse(w io.Writer, code uint32, msg string, payload []byte) error {
	buf := make([]byte, 0, 4+2+len(msg)+4+len(payload))
	buf = binary.BigEndian.AppendUint32(buf, code)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(msg)))
	buf = append(buf, msg...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)

	_, err := w.Write(buf)
	return err
}

// WriteRequest writes one request frame to w. It is the client half of the
// wire format, exported for clients and tests.
func WriteRequest(w io.Writer, method string, payload []byte) error {
	if len(method) > maxMethodLen {
		return fmt.Errorf("%w: method length %d", ErrFrameTooLarge, len(method))
	}
	if len(payload) > maxPayloadLen {
		return fmt.Errorf("%w: payload length %d", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, 0, 2+len(method)+4+len(payload))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(method)))
	buf = append(buf, method...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)

	_, err := w.Write(buf)
	return err
}

// ReadResponse reads one response frame from r. It is the client half of the
// wire format, exported for clients and tests.
func ReadResponse(r io.Reader) (code uint32, msg string, payload []byte, err error) {
	if err = binary.Read(r, binary.BigEndian, &code); err != nil {
		return 0, "", nil, err
	}

	var mlen uint16
	if err = binary.Read(r, binary.BigEndian, &mlen); err != nil {
		return 0, "", nil, err
	}

	m := make([]byte, mlen)
	if _, err = io.ReadFull(r, m); err != nil {
		return 0, "", nil, err
	}

	var plen uint32
	if err = binary.Read(r, binary.BigEndian, &plen); err != nil {
		return 0, "", nil, err
	}
	if plen > maxPayloadLen {
		return 0, "", nil, fmt.Errorf("%w: payload length %d", ErrFrameTooLarge, plen)
	}

	payload = make([]byte, plen)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, "", nil, err
	}

	return code, string(m), payload, nil
}
