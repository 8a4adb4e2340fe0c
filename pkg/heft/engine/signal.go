package engine

import "sync/atomic"

// Signal is a write-once stop flag shared between the scan goroutine and
// whoever controls it. Once raised it stays raised.
type Signal struct {
	raised atomic.Bool
}

// NewSignal returns a lowered signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Raise requests that the scan stop. Safe to call more than once and from
// any goroutine.
func (s *Signal) Raise() {
	s.raised.Store(true)
}

// Raised reports whether Raise has been called. A nil Signal never is.
func (s *Signal) Raised() bool {
	return s != nil && s.raised.Load()
}
