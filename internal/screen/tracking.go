package screen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/pkg/clock"
	"github.com/rideflow/rideflow/pkg/geo"
)

// TrackTickInterval is how often the live map refreshes.
const TrackTickInterval = 3 * time.Second

const (
	initialETA = 8
	// driverJitter bounds the per-tick drift of the simulated driver
	// position, in degrees.
	driverJitter = 0.0005
)

// TrackingState is one consistent snapshot of the live-tracking view.
type TrackingState struct {
	Trip       model.Booking
	Status     model.RideStatus
	ETAMinutes int
	Driver     model.Coordinate
	Rider      model.Coordinate
}

// RideTracking animates the driver toward the rider on a fixed interval.
// The ticker goroutine is the only writer after Mount; readers go through
// Snapshot. Unmount stops the goroutine, so a tracking screen left via
// navigation never keeps updating in the background.
type RideTracking struct {
	deps Deps

	mu    sync.Mutex
	state TrackingState

	ticker  clock.Ticker
	stop    chan struct{}
	done    chan struct{}
	updates chan struct{}
}

func NewRideTracking(deps Deps) *RideTracking {
	return &RideTracking{deps: deps, updates: make(chan struct{}, 1)}
}

func (t *RideTracking) Route() string { return nav.RouteRideTracking }

func (t *RideTracking) Mount(p nav.Params) {
	trip := model.SampleTrip()
	if b, ok := p["bookingData"].(model.Booking); ok {
		trip = b
	}

	t.mu.Lock()
	t.state = TrackingState{
		Trip:       trip,
		Status:     model.StatusArriving,
		ETAMinutes: initialETA,
		Driver:     model.Coordinate{Lat: 37.78825, Lon: -122.4324},
		Rider:      model.Coordinate{Lat: 37.7849, Lon: -122.4194},
	}
	t.mu.Unlock()

	t.ticker = t.deps.Clock.NewTicker(TrackTickInterval)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run()
}

func (t *RideTracking) Unmount() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stop)
	<-t.done
	t.ticker = nil
}

func (t *RideTracking) run() {
	defer close(t.done)
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C():
			t.step()
		}
	}
}

// step advances the simulation one tick: the driver position drifts by a
// small bounded amount and the ETA counts down, never below zero.
func (t *RideTracking) step() {
	t.mu.Lock()
	t.state.Driver.Lat += (rand.Float64() - 0.5) * 2 * driverJitter
	t.state.Driver.Lon += (rand.Float64() - 0.5) * 2 * driverJitter
	if t.state.ETAMinutes > 0 {
		t.state.ETAMinutes--
	}
	if t.state.ETAMinutes == 0 && t.state.Status == model.StatusArriving {
		t.state.Status = model.StatusPickedUp
	}
	t.mu.Unlock()
	t.notify()
}

// notify coalesces change signals; a slow view sees at least one.
func (t *RideTracking) notify() {
	select {
	case t.updates <- struct{}{}:
	default:
	}
}

// Updates signals that Snapshot would return something new.
func (t *RideTracking) Updates() <-chan struct{} { return t.updates }

// Snapshot returns a consistent copy of the tracking state.
func (t *RideTracking) Snapshot() TrackingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ETADisplay is the countdown text under the status banner.
func (t *RideTracking) ETADisplay() string {
	s := t.Snapshot()
	if s.ETAMinutes == 0 {
		return "Arriving now"
	}
	return fmt.Sprintf("%d min away", s.ETAMinutes)
}

// DriverDistanceKm is the straight-line distance between driver and rider.
func (t *RideTracking) DriverDistanceKm() float64 {
	s := t.Snapshot()
	return geo.HaversineKm(s.Driver, s.Rider)
}

// ContactDriver prompts before dialing.
func (t *RideTracking) ContactDriver() {
	s := t.Snapshot()
	t.deps.Dialogs.Confirm(Dialog{
		Title:        "Call Driver",
		Message:      fmt.Sprintf("Call %s at %s?", s.Trip.DriverName, s.Trip.DriverPhone),
		ConfirmLabel: "Call",
		CancelLabel:  "Cancel",
	})
}

// CancelRide is destructive: confirming leaves tracking and returns to the
// previous screen, declining changes nothing.
func (t *RideTracking) CancelRide() {
	ok := t.deps.Dialogs.Confirm(Dialog{
		Title:        "Cancel Ride",
		Message:      "Are you sure you want to cancel this ride?",
		ConfirmLabel: "Cancel Ride",
		CancelLabel:  "Keep Ride",
		Destructive:  true,
	})
	if !ok {
		return
	}
	t.deps.Dialogs.Alert("Ride Cancelled", "Your ride has been cancelled.")
	t.deps.Nav.Pop()
}

// Emergency surfaces the SOS prompt. Nothing is contacted from here; the
// confirmation hands off to the platform dialer.
func (t *RideTracking) Emergency() {
	ok := t.deps.Dialogs.Confirm(Dialog{
		Title:        "Emergency",
		Message:      "Contact emergency services?",
		ConfirmLabel: "Call 911",
		CancelLabel:  "Cancel",
		Destructive:  true,
	})
	if ok {
		t.deps.Dialogs.Alert("Emergency", "Connecting you to emergency services.")
	}
}
