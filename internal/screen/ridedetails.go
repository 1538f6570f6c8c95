package screen

import (
	"context"
	"fmt"
	"log"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// DismissThreshold is the drag distance, in logical units, beyond which
// releasing the sheet commits the dismiss. Releasing at exactly the
// threshold springs back; dismissal requires strictly more.
const DismissThreshold = 100.0

// ModalPhase is the ride-details sheet lifecycle.
type ModalPhase string

const (
	ModalHidden     ModalPhase = "hidden"
	ModalPresenting ModalPhase = "presenting"
	ModalPresented  ModalPhase = "presented"
	ModalDismissing ModalPhase = "dismissing"
)

// RideDetails is the bottom-sheet overlay for one ride. It can be closed
// by the explicit close action, a backdrop tap, or a downward drag whose
// release distance decides commit-vs-cancel. Confirm and Cancel both end
// hidden, but only Confirm books the ride.
type RideDetails struct {
	deps Deps

	Trip       model.Booking
	Phase      ModalPhase
	DragOffset float64

	// Confirmed is set when the rider booked through this sheet; the
	// host uses it to continue into the confirmation flow.
	Confirmed bool
}

func NewRideDetails(deps Deps) *RideDetails {
	return &RideDetails{deps: deps, Phase: ModalHidden}
}

func (m *RideDetails) Route() string { return nav.RouteRideDetails }

// Mount loads the trip for the given rideId, or the built-in sample trip
// when no parameter (or no matching record) is available, and starts the
// spring-in.
func (m *RideDetails) Mount(p nav.Params) {
	m.Trip = model.SampleTrip()
	if id, ok := p["rideId"].(string); ok && id != "" {
		var ride model.Ride
		if err := m.deps.Gateway.GetByID(context.Background(), "rides", id, &ride); err == nil {
			m.Trip = bookingFromRide(ride)
		} else {
			log.Printf("[ridedetails] ride %s not loaded, using sample trip: %v", id, err)
		}
	}
	if b, ok := p["bookingData"].(model.Booking); ok {
		m.Trip = b
	}
	m.Phase = ModalPresenting
	m.DragOffset = 0
	m.Confirmed = false
}

func (m *RideDetails) Unmount() {
	m.Phase = ModalHidden
	m.DragOffset = 0
}

// SpringSettled reports that the presenting animation finished.
func (m *RideDetails) SpringSettled() {
	if m.Phase == ModalPresenting {
		m.Phase = ModalPresented
	}
}

// ─── Drag-to-dismiss ────────────────────────────────────────

// DragTo moves the sheet while presented. Upward drags clamp to the
// resting position.
func (m *RideDetails) DragTo(offset float64) {
	if m.Phase != ModalPresented {
		return
	}
	if offset < 0 {
		offset = 0
	}
	m.DragOffset = offset
}

// Release ends a drag: strictly past the threshold commits the dismiss,
// anything up to and including it springs back to rest.
func (m *RideDetails) Release() {
	if m.Phase != ModalPresented {
		return
	}
	if m.DragOffset > DismissThreshold {
		m.dismiss()
		return
	}
	m.DragOffset = 0
}

// ─── Actions ────────────────────────────────────────────────

// Close dismisses via the explicit control or a backdrop tap.
func (m *RideDetails) Close() {
	if m.Phase == ModalHidden || m.Phase == ModalDismissing {
		return
	}
	m.dismiss()
}

// Confirm books the ride after a confirmation prompt and dismisses.
func (m *RideDetails) Confirm() {
	if m.Phase != ModalPresented {
		return
	}
	ok := m.deps.Dialogs.Confirm(Dialog{
		Title:        "Confirm Ride",
		Message:      fmt.Sprintf("Confirm your ride with %s?", m.Trip.DriverName),
		ConfirmLabel: "Confirm",
		CancelLabel:  "Back",
	})
	if !ok {
		return
	}
	m.Confirmed = true
	m.deps.Dialogs.Alert("Ride Confirmed!", "Your driver is on the way.")
	m.dismiss()
}

// CancelTrip is destructive and requires the two-step confirmation before
// anything changes.
func (m *RideDetails) CancelTrip() {
	if m.Phase != ModalPresented {
		return
	}
	ok := m.deps.Dialogs.Confirm(Dialog{
		Title:        "Cancel Trip",
		Message:      "Are you sure you want to cancel this trip?",
		ConfirmLabel: "Cancel Trip",
		CancelLabel:  "Keep Trip",
		Destructive:  true,
	})
	if !ok {
		return
	}
	m.deps.Dialogs.Alert("Trip Cancelled", "Your trip has been cancelled successfully.")
	m.dismiss()
}

// ContactDriver offers call-or-chat for the assigned driver.
func (m *RideDetails) ContactDriver() {
	m.deps.Dialogs.Confirm(Dialog{
		Title:        "Call Driver",
		Message:      fmt.Sprintf("Call %s at %s?", m.Trip.DriverName, m.Trip.DriverPhone),
		ConfirmLabel: "Call",
		CancelLabel:  "Cancel",
	})
}

// ChangePayment opens the payment method picker entry point.
func (m *RideDetails) ChangePayment() {
	m.deps.Dialogs.Alert("Change Payment", "Payment method selection will open here.")
}

// ShareText is the message handed to the platform share sheet.
func (m *RideDetails) ShareText() string {
	return fmt.Sprintf("I'm on my way to %s!\nDriver: %s (%.1f)\nVehicle: %s - %s\nETA: %s\nTrip ID: %s",
		m.Trip.To, m.Trip.DriverName, m.Trip.DriverRating,
		m.Trip.VehicleModel, m.Trip.VehicleNumber,
		m.Trip.EstimatedArrival, m.Trip.BookingID)
}

func (m *RideDetails) dismiss() {
	m.Phase = ModalDismissing
	m.deps.Nav.DismissModal() // unmounts this screen, ending in Hidden
}
