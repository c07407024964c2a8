package usecase

import (
	"sync/atomic"

	"namaz-cli/internal/domain"
)

// Snapshot holds the most recent DailyTimings. The refresher is the only
// writer; the render loop, the web adapter and tests read it.
type Snapshot struct {
	current atomic.Pointer[domain.DailyTimings]
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Load returns the stored timings, or false before the first success.
func (s *Snapshot) Load() (domain.DailyTimings, bool) {
	p := s.current.Load()
	if p == nil {
		return domain.DailyTimings{}, false
	}
	return *p, true
}

// Store replaces the timings wholesale.
func (s *Snapshot) Store(t domain.DailyTimings) {
	s.current.Store(&t)
}
