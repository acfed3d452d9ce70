// Package nonce issues request nonces for exchanges that reject any nonce not
// strictly greater than the last one seen for an API key.
package nonce

import (
	"sync"
	"time"
)

// Source hands out millisecond-based nonces, one increasing sequence per API key.
// It is safe for concurrent use.
type Source struct {
	mu   sync.Mutex
	last map[string]int64
	now  func() time.Time
}

// Default is the process-wide source. Every client signing with the same key
// must draw from the same Source or the sequences can interleave.
var Default = New()

// New creates a Source backed by the wall clock.
func New() *Source {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Source that reads time from now.
func NewWithClock(now func() time.Time) *Source {
	return &Source{
		last: make(map[string]int64),
		now:  now,
	}
}

// Next returns the next nonce for key: the current Unix time in milliseconds,
// or one more than the previous nonce when the clock has not advanced past it.
func (s *Source) Next(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.now().UnixMilli()
	if last, ok := s.last[key]; ok && n <= last {
		n = last + 1
	}
	s.last[key] = n
	return n
}

// Last returns the most recent nonce issued for key, or zero.
func (s *Source) Last(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[key]
}

// Forget drops the sequence for key.
func (s *Source) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, key)
}
