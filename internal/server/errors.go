// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrInvalidState indicates a lifecycle operation invoked in the wrong
	// state: mutating the registry or binding a port after Start, starting
	// twice, or stopping a server that was never started (or twice).
	ErrInvalidState = errors.New("invalid server state")

	// ErrDuplicateMethod indicates two handlers registered under the same
	// fully-qualified method name.
	ErrDuplicateMethod = errors.New("duplicate method registration")

	// ErrBind wraps a transport failure to bind a listening address.
	ErrBind = errors.New("bind failed")

	// ErrSignalReentry indicates a second write to the write-once shutdown
	// signal. It is defensive: the transport promises to fire the drain
	// callback once, so observing this means a transport bug, logged rather
	// than allowed to crash the event goroutine.
	ErrSignalReentry = errors.New("shutdown signal completed twice")
)
