package transport

import "errors"

var (
	// ErrAlreadyBound indicates a second Bind on a transport that already
	// listens on an address.
	ErrAlreadyBound = errors.New("transport already bound")

	// ErrNotBound indicates Start on a transport with no bound address.
	ErrNotBound = errors.New("transport has no bound address")

	// ErrDraining is delivered to a pending next-call registration when the
	// transport shuts down before another call arrives.
	ErrDraining = errors.New("transport is draining")

	// ErrCallCompleted indicates a second completion attempt on a call.
	ErrCallCompleted = errors.New("call already completed")

	// ErrFrameTooLarge indicates an inbound frame exceeding the wire limits.
	ErrFrameTooLarge = errors.New("frame exceeds size limit")
)
