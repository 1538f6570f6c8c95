package screen

import (
	"strings"
	"testing"

	"github.com/rideflow/rideflow/internal/nav"
)

func presentDetails(t *testing.T, e *env) *RideDetails {
	t.Helper()
	e.signIn(t)
	scr := e.graph.Present(nav.RouteRideDetails, nil)
	m := scr.(*RideDetails)
	m.SpringSettled()
	if m.Phase != ModalPresented {
		t.Fatalf("phase = %q, want presented", m.Phase)
	}
	return m
}

func TestDragReleaseAtBoundarySpringsBack(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)

	m.DragTo(100)
	m.Release()

	if m.Phase != ModalPresented {
		t.Fatalf("release at exactly 100 dismissed the sheet (phase %q)", m.Phase)
	}
	if m.DragOffset != 0 {
		t.Errorf("offset = %v, want spring back to 0", m.DragOffset)
	}
	if !e.graph.ModalPresented() {
		t.Error("modal should still be presented")
	}
}

func TestDragReleasePastBoundaryDismisses(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)

	m.DragTo(101)
	m.Release()

	if m.Phase != ModalHidden {
		t.Fatalf("phase = %q, want hidden after dismiss", m.Phase)
	}
	if e.graph.ModalPresented() {
		t.Error("modal still presented after drag dismiss")
	}
}

func TestDragIgnoredBeforePresented(t *testing.T) {
	e := newEnv(t)
	e.signIn(t)
	scr := e.graph.Present(nav.RouteRideDetails, nil)
	m := scr.(*RideDetails)
	// Still presenting: gestures don't land yet.
	m.DragTo(500)
	m.Release()
	if m.Phase != ModalPresenting {
		t.Fatalf("phase = %q, want presenting", m.Phase)
	}
}

func TestNegativeDragClampsToRest(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)
	m.DragTo(-40)
	if m.DragOffset != 0 {
		t.Errorf("upward drag offset = %v, want clamp to 0", m.DragOffset)
	}
}

func TestConfirmRequiresDialogApproval(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)

	// Declined: nothing changes.
	m.Confirm()
	if m.Confirmed || m.Phase != ModalPresented {
		t.Fatal("declined confirmation must leave the sheet up and unbooked")
	}

	e.dialogs.answers = []bool{true}
	m.Confirm()
	if !m.Confirmed {
		t.Fatal("approved confirmation did not book")
	}
	if e.dialogs.lastAlert() != "Ride Confirmed!" {
		t.Errorf("lastAlert = %q, want ride confirmed", e.dialogs.lastAlert())
	}
	if e.graph.ModalPresented() {
		t.Error("sheet should dismiss after confirming")
	}
}

func TestCancelTripIsTwoStep(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)

	m.CancelTrip()
	if !e.graph.ModalPresented() {
		t.Fatal("declined cancel must keep the trip")
	}

	e.dialogs.answers = []bool{true}
	m.CancelTrip()
	if e.graph.ModalPresented() {
		t.Error("confirmed cancel should dismiss the sheet")
	}
}

func TestShareTextNamesTripAndDriver(t *testing.T) {
	e := newEnv(t)
	m := presentDetails(t, e)
	text := m.ShareText()
	for _, want := range []string{m.Trip.DriverName, m.Trip.BookingID, m.Trip.To} {
		if want == "" {
			t.Fatal("sample trip has empty fields")
		}
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q:\n%s", want, text)
		}
	}
}
