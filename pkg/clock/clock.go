// Package clock abstracts timers and tickers so screen controllers can be
// tested by advancing time deterministically instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// Clock creates timers and tickers and reports the current time.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
	NewTicker(d time.Duration) Ticker
}

// Timer fires once on its channel after the configured duration.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Ticker fires repeatedly on its channel until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// ─── Real clock ─────────────────────────────────────────────

// Real delegates to the time package.
type Real struct{}

func New() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) NewTimer(d time.Duration) Timer { return realTimer{time.NewTimer(d)} }

func (Real) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// ─── Fake clock ─────────────────────────────────────────────

// Fake is a manually advanced clock for tests. Advance moves the current
// time forward and fires every timer and ticker whose deadline passed.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
}

// NewFake returns a fake clock starting at an arbitrary fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, 7, 19, 10, 30, 0, 0, time.UTC)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTimer(d time.Duration) Timer {
	return f.addWaiter(d, false)
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	return fakeTicker{f.addWaiter(d, true)}
}

// fakeTicker adapts fakeWaiter's Stop() bool to Ticker's Stop().
type fakeTicker struct{ *fakeWaiter }

func (t fakeTicker) Stop() { t.fakeWaiter.Stop() }

func (f *Fake) addWaiter(d time.Duration, periodic bool) *fakeWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWaiter{
		clock:    f,
		ch:       make(chan time.Time, 1),
		deadline: f.now.Add(d),
		period:   d,
		periodic: periodic,
	}
	f.waiters = append(f.waiters, w)
	return w
}

// Advance moves the clock forward by d, delivering ticks in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		var next *fakeWaiter
		for _, w := range f.waiters {
			if w.stopped || w.deadline.After(target) {
				continue
			}
			if next == nil || w.deadline.Before(next.deadline) {
				next = w
			}
		}
		if next == nil {
			break
		}
		f.now = next.deadline
		select {
		case next.ch <- f.now:
		default: // receiver not keeping up, drop the tick like time.Ticker does
		}
		if next.periodic {
			next.deadline = next.deadline.Add(next.period)
		} else {
			next.stopped = true
		}
	}
	f.now = target
	f.mu.Unlock()
}

type fakeWaiter struct {
	clock    *Fake
	ch       chan time.Time
	deadline time.Time
	period   time.Duration
	periodic bool
	stopped  bool
}

func (w *fakeWaiter) C() <-chan time.Time { return w.ch }

func (w *fakeWaiter) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	active := !w.stopped
	w.stopped = true
	return active
}
