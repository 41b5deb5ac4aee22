// Package server implements the call-dispatch engine at the heart of
// go-switchboard.
//
// A Server owns the lifecycle of one listening transport: it validates the
// created → started → shutting-down → terminated transitions, keeps exactly
// one "next call" registration outstanding with the transport while it is
// accepting, routes every delivered call to a registered handler on an
// injected executor, and coordinates an exactly-once graceful shutdown that
// waits for in-flight calls to drain before the listener is released.
//
// The transport delivers notifications on its own event goroutine. Nothing
// in this package is allowed to block that goroutine: handler invocations are
// off-loaded to the executor and panics are recovered and logged instead of
// unwinding across the delivery boundary.
package server
