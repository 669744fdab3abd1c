package walletkit

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
)

// TimerSlot holds at most one pending callback. Scheduling into the slot
// cancels whatever was pending before, so the last scheduler wins.
type TimerSlot struct {
	clock mclock.Clock

	mu    sync.Mutex
	timer mclock.Timer
	gen   uint64
}

// NewTimerSlot returns an empty slot driven by clock. A nil clock means the
// system clock.
func NewTimerSlot(clock mclock.Clock) *TimerSlot {
	if clock == nil {
		clock = mclock.System{}
	}
	return &TimerSlot{clock: clock}
}

var sharedRetrySlot = NewTimerSlot(mclock.System{})

// SharedRetrySlot is the process-wide slot connect retries are scheduled in.
// Only one retry may be pending across the whole application, so a flow
// starting elsewhere cancels another flow's pending retry.
func SharedRetrySlot() *TimerSlot {
	return sharedRetrySlot
}

// Schedule runs fn after d unless the slot is rescheduled or cancelled first.
func (s *TimerSlot) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		// a fired timer may lose the race with Stop; the generation decides
		if s.gen != gen || s.timer == nil {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any. It reports whether one was
// pending.
func (s *TimerSlot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	return true
}

// Pending reports whether a callback is waiting to run.
func (s *TimerSlot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
