// Package transport provides a TCP implementation of the engine's Transport
// contract.
//
// The wire format is a minimal length-prefixed framing: a request frame
// carries a method name and an opaque payload, a response frame carries a
// status code, a status message and an optional payload. One connection
// carries a sequence of calls; the next request frame on a connection is
// read only after the previous call has been completed.
//
// A single event goroutine (the pump) matches one-shot "next call"
// registrations against inbound calls, which gives the engine its
// exactly-once delivery guarantee per registration.
package transport
