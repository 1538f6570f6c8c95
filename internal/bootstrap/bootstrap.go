// Package bootstrap drives the one-time splash sequence at process start.
//
// The main graph mounts once the sequencer reaches Ready. Readiness is
// normally gated by whichever finishes later: the splash animation or the
// minimum display duration. If the animation callback never arrives, a
// fallback deadline forces readiness so startup can never deadlock on a
// lost animation completion.
package bootstrap

import (
	"sync"
	"time"

	"github.com/rideflow/rideflow/pkg/clock"
)

// DefaultMinDuration is the minimum splash display time.
const DefaultMinDuration = 3 * time.Second

// Sequencer is a one-shot Loading → Ready machine. There is no reverse
// transition, and Ready fires exactly once no matter how many times the
// animation reports completion.
type Sequencer struct {
	clk      clock.Clock
	minDur   time.Duration
	forceDur time.Duration

	mu        sync.Mutex
	started   bool
	animDone  bool
	timerDone bool
	ready     bool

	readyCh  chan struct{}
	minTimer clock.Timer
	maxTimer clock.Timer
	stopCh   chan struct{}
}

// NewSequencer builds a sequencer with the given minimum display duration.
// The force deadline is twice the minimum.
func NewSequencer(clk clock.Clock, minDur time.Duration) *Sequencer {
	if minDur <= 0 {
		minDur = DefaultMinDuration
	}
	return &Sequencer{
		clk:      clk,
		minDur:   minDur,
		forceDur: 2 * minDur,
		readyCh:  make(chan struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Start arms the duration timers. Calling Start twice is a no-op.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.minTimer = s.clk.NewTimer(s.minDur)
	s.maxTimer = s.clk.NewTimer(s.forceDur)
	s.mu.Unlock()

	go s.wait()
}

func (s *Sequencer) wait() {
	for {
		select {
		case <-s.minTimer.C():
			s.mu.Lock()
			s.timerDone = true
			s.maybeReadyLocked()
			s.mu.Unlock()
		case <-s.maxTimer.C():
			// Animation never reported completion; force readiness.
			s.mu.Lock()
			s.animDone = true
			s.timerDone = true
			s.maybeReadyLocked()
			s.mu.Unlock()
		case <-s.readyCh:
			return
		case <-s.stopCh:
			return
		}
		s.mu.Lock()
		done := s.ready
		s.mu.Unlock()
		if done {
			return
		}
	}
}

// AnimationComplete records that the splash animation finished. Idempotent:
// repeated calls cannot re-trigger readiness.
func (s *Sequencer) AnimationComplete() {
	s.mu.Lock()
	s.animDone = true
	s.maybeReadyLocked()
	s.mu.Unlock()
}

// Ready returns a channel closed exactly once when the splash may be torn
// down and the main graph mounted.
func (s *Sequencer) Ready() <-chan struct{} { return s.readyCh }

// IsReady reports whether the sequencer reached its terminal state.
func (s *Sequencer) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Stop cancels the timers. Only useful in tests; the sequencer normally
// runs to completion.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.ready && s.started {
		close(s.stopCh)
		s.minTimer.Stop()
		s.maxTimer.Stop()
		s.ready = true // terminal, but readyCh is left open deliberately
	}
	s.mu.Unlock()
}

func (s *Sequencer) maybeReadyLocked() {
	if s.ready || !s.animDone || !s.timerDone {
		return
	}
	s.ready = true
	s.minTimer.Stop()
	s.maxTimer.Stop()
	close(s.readyCh)
}
