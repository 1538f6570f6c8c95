package screen

import (
	"testing"
	"time"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// tick advances the fake clock one interval and waits for the simulation
// goroutine to absorb it.
func tick(t *testing.T, e *env, tr *RideTracking) {
	t.Helper()
	e.clk.Advance(TrackTickInterval)
	select {
	case <-tr.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("no update after advancing the clock")
	}
}

func TestTrackingCountsDownToZeroAndStops(t *testing.T) {
	e := newEnv(t)
	tr := NewRideTracking(e.deps)
	tr.Mount(nil)
	defer tr.Unmount()

	prev := tr.Snapshot().ETAMinutes
	if prev != 8 {
		t.Fatalf("initial ETA = %d, want 8", prev)
	}
	for i := 0; i < 12; i++ {
		tick(t, e, tr)
		got := tr.Snapshot().ETAMinutes
		if got > prev {
			t.Fatalf("ETA rose from %d to %d", prev, got)
		}
		if got < 0 {
			t.Fatalf("ETA went negative: %d", got)
		}
		prev = got
	}
	if prev != 0 {
		t.Fatalf("ETA after 12 ticks = %d, want 0", prev)
	}
}

func TestTrackingDriverDriftIsBounded(t *testing.T) {
	e := newEnv(t)
	tr := NewRideTracking(e.deps)
	tr.Mount(nil)
	defer tr.Unmount()

	before := tr.Snapshot().Driver
	tick(t, e, tr)
	after := tr.Snapshot().Driver

	if dLat := after.Lat - before.Lat; dLat > 0.0005 || dLat < -0.0005 {
		t.Errorf("lat drift %v exceeds bound", dLat)
	}
	if dLon := after.Lon - before.Lon; dLon > 0.0005 || dLon < -0.0005 {
		t.Errorf("lon drift %v exceeds bound", dLon)
	}
}

func TestTrackingUnmountStopsTicker(t *testing.T) {
	e := newEnv(t)
	tr := NewRideTracking(e.deps)
	tr.Mount(nil)
	tick(t, e, tr)
	tr.Unmount()

	eta := tr.Snapshot().ETAMinutes
	e.clk.Advance(5 * TrackTickInterval)
	if got := tr.Snapshot().ETAMinutes; got != eta {
		t.Fatalf("ETA changed after unmount: %d → %d", eta, got)
	}
	// Unmount again must be safe.
	tr.Unmount()
}

func TestTrackingMountUsesBookingParam(t *testing.T) {
	e := newEnv(t)
	tr := NewRideTracking(e.deps)
	booking := model.Booking{BookingID: "BK-test", DriverName: "Joshua"}
	tr.Mount(map[string]any{"bookingData": booking})
	defer tr.Unmount()

	if got := tr.Snapshot().Trip.BookingID; got != "BK-test" {
		t.Fatalf("trip = %q, want the booking passed in params", got)
	}
}

func TestTrackingCancelPopsOnlyWhenConfirmed(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)
	scr := e.graph.Push(nav.RouteRideTracking, nil)
	tr := scr.(*RideTracking)

	tr.CancelRide() // declined
	if route, _ := e.graph.Current(); route != nav.RouteRideTracking {
		t.Fatalf("declined cancel left tracking, now on %q", route)
	}

	e.dialogs.answers = []bool{true}
	tr.CancelRide()
	if route, _ := e.graph.Current(); route == nav.RouteRideTracking {
		t.Fatal("confirmed cancel should pop back")
	}
}
