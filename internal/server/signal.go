package server

import "sync"

// shutdownSignal is a write-once completion marker. Any number of waiters
// may park on C(); complete() closes the channel exactly once and reports
// ErrSignalReentry on every subsequent attempt.
type shutdownSignal struct {
	mu    sync.Mutex
	fired bool
	ch    chan struct{}
}

func newShutdownSignal() *shutdownSignal {
	return &shutdownSignal{ch: make(chan struct{})}
}

// complete fires the signal. The first call returns nil; all later calls
// return ErrSignalReentry and leave the signal untouched.
func (s *shutdownSignal) complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fired {
		return ErrSignalReentry
	}

	s.fired = true
	close(s.ch)
	return nil
}

// C returns the channel closed when the signal fires.
func (s *shutdownSignal) C() <-chan struct{} {
	return s.ch
}
