package screen

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

func TestRidesListFallsBackToSamples(t *testing.T) {
	e := newEnv(t)
	e.gw.getAllFn = func(string, any) error {
		return &gateway.Error{Kind: gateway.KindNetwork, Op: "records.getAll", Message: "offline"}
	}
	r := NewRidesList(e.deps)
	r.Mount(nil)

	if len(r.Rides) != len(model.SampleRides()) {
		t.Fatalf("rides = %d, want the %d samples", len(r.Rides), len(model.SampleRides()))
	}
}

func TestRidesListUsesGatewayRecords(t *testing.T) {
	e := newEnv(t)
	want := []model.Ride{{ID: "r-9", DriverName: "Dana", Price: 7.5}}
	e.gw.getAllFn = func(collection string, out any) error {
		buf, _ := json.Marshal(want)
		return json.Unmarshal(buf, out)
	}
	r := NewRidesList(e.deps)
	r.Mount(nil)

	if len(r.Rides) != 1 || r.Rides[0].ID != "r-9" {
		t.Fatalf("rides = %+v, want the gateway record", r.Rides)
	}
}

func TestBookDeclinedLeavesEverythingUntouched(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)
	e.graph.SelectTab(nav.RouteRidesList)
	_, scr := e.graph.Current()
	r := scr.(*RidesList)

	r.Book(r.Rides[0].ID)

	if route, _ := e.graph.Current(); route != nav.RouteRidesList {
		t.Fatalf("declined booking navigated to %q", route)
	}
	if len(e.dialogs.alerts) != 0 {
		t.Errorf("declined booking raised alerts: %v", e.dialogs.alerts)
	}
}

func TestBookConfirmedBuildsBookingAndNavigates(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)
	e.graph.SelectTab(nav.RouteRidesList)
	_, scr := e.graph.Current()
	r := scr.(*RidesList)
	ride := r.Rides[0]

	e.dialogs.answers = []bool{true}
	r.Book(ride.ID)

	route, top := e.graph.Current()
	if route != nav.RouteBookingConfirmation {
		t.Fatalf("route = %q, want confirmation", route)
	}
	booking := top.(*BookingConfirmation).Booking
	if booking.DriverName != ride.DriverName {
		t.Errorf("booking driver = %q, want %q", booking.DriverName, ride.DriverName)
	}
	if len(booking.BookingID) < 4 || booking.BookingID[:3] != "BK-" {
		t.Errorf("booking id = %q, want BK- prefix", booking.BookingID)
	}
}

func TestShowDetailsPresentsModal(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)
	e.graph.SelectTab(nav.RouteRidesList)
	_, scr := e.graph.Current()
	r := scr.(*RidesList)

	r.ShowDetails(r.Rides[0].ID)
	if !e.graph.ModalPresented() {
		t.Fatal("details overlay not presented")
	}
	route, _ := e.graph.Current()
	if route != nav.RouteRideDetails {
		t.Fatalf("visible route = %q, want the modal", route)
	}
}

func TestRefreshReloads(t *testing.T) {
	e := newEnv(t)
	calls := 0
	e.gw.getAllFn = func(string, any) error {
		calls++
		return notFound("records.getAll")
	}
	r := NewRidesList(e.deps)
	r.Mount(nil)
	r.Refresh(context.Background())
	if calls != 2 {
		t.Fatalf("gateway list calls = %d, want mount + refresh", calls)
	}
	if r.Refreshing {
		t.Error("refreshing flag stuck")
	}
}
