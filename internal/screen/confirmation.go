package screen

import (
	"fmt"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// BookingConfirmation shows the booked ride summary. The payload arrives
// as a navigation parameter; without one the screen falls back to the
// sample booking so it still renders when reached directly.
type BookingConfirmation struct {
	deps Deps

	Booking model.Booking
}

func NewBookingConfirmation(deps Deps) *BookingConfirmation {
	return &BookingConfirmation{deps: deps}
}

func (c *BookingConfirmation) Route() string { return nav.RouteBookingConfirmation }

func (c *BookingConfirmation) Mount(p nav.Params) {
	if b, ok := p["bookingData"].(model.Booking); ok {
		c.Booking = b
		return
	}
	c.Booking = model.SampleBooking()
}

func (c *BookingConfirmation) Unmount() {}

// TrackRide moves into live tracking for this booking.
func (c *BookingConfirmation) TrackRide() {
	c.deps.Nav.Push(nav.RouteRideTracking, nav.Params{"bookingData": c.Booking})
}

// ViewAllRides returns to the full rides list.
func (c *BookingConfirmation) ViewAllRides() {
	c.deps.Nav.Push(nav.RouteRidesList, nil)
}

// CallDriver prompts before dialing the assigned driver.
func (c *BookingConfirmation) CallDriver() {
	c.deps.Dialogs.Confirm(Dialog{
		Title:        "Call Driver",
		Message:      fmt.Sprintf("Call %s at %s?", c.Booking.DriverName, c.Booking.DriverPhone),
		ConfirmLabel: "Call",
		CancelLabel:  "Cancel",
	})
}

// MessageDriver opens the chat entry point.
func (c *BookingConfirmation) MessageDriver() {
	c.deps.Dialogs.Alert("Message Driver", "Chat with "+c.Booking.DriverName+" will open here.")
}

// CancelBooking is destructive: it requires confirmation, and declining
// leaves the booking untouched. Confirming pops back to the previous
// screen.
func (c *BookingConfirmation) CancelBooking() {
	ok := c.deps.Dialogs.Confirm(Dialog{
		Title:        "Cancel Booking",
		Message:      "Are you sure you want to cancel booking " + c.Booking.BookingID + "?",
		ConfirmLabel: "Cancel Booking",
		CancelLabel:  "Keep Booking",
		Destructive:  true,
	})
	if !ok {
		return
	}
	c.deps.Dialogs.Alert("Booking Cancelled", "Your booking has been cancelled.")
	c.deps.Nav.Pop()
}
