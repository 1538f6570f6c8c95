package screen

import (
	"log"

	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// RideBooking holds the in-progress booking draft: one vehicle class and
// one destination choice. The primary action stays disabled until both are
// selected, and selecting an already-selected value clears it again.
type RideBooking struct {
	deps Deps

	Draft model.BookingDraft
}

func NewRideBooking(deps Deps) *RideBooking {
	return &RideBooking{deps: deps}
}

func (b *RideBooking) Route() string { return nav.RouteRideBooking }

// Mount accepts an optional rideType parameter so callers can preselect a
// vehicle class; with no parameters the draft starts empty.
func (b *RideBooking) Mount(p nav.Params) {
	b.Draft = model.BookingDraft{}
	if t, ok := p["rideType"].(model.RideType); ok && t.Valid() {
		b.Draft.RideType = t
	}
}

func (b *RideBooking) Unmount() {}

// Options returns the selectable vehicle classes.
func (b *RideBooking) Options() []model.RideOption { return model.SampleRideOptions() }

// Destinations returns the fixed destination choices.
func (b *RideBooking) Destinations() []string { return model.SampleDestinations() }

// SelectRideType toggles the vehicle class selection. Unknown values are
// ignored rather than stored.
func (b *RideBooking) SelectRideType(t model.RideType) {
	if !t.Valid() {
		return
	}
	if b.Draft.RideType == t {
		b.Draft.RideType = ""
		return
	}
	b.Draft.RideType = t
}

// SelectDestination toggles the destination selection.
func (b *RideBooking) SelectDestination(name string) {
	if b.Draft.Destination == name {
		b.Draft.Destination = ""
		return
	}
	b.Draft.Destination = name
}

// CanBook reports whether the primary action is enabled.
func (b *RideBooking) CanBook() bool { return b.Draft.Complete() }

// Book submits the draft: both selections travel as parameters into the
// rides list. Calling it with an incomplete draft is a no-op because the
// action is rendered disabled in that state.
func (b *RideBooking) Book() {
	if !b.CanBook() {
		return
	}
	log.Printf("[booking] draft submitted: type=%s destination=%q", b.Draft.RideType, b.Draft.Destination)
	b.deps.Nav.Push(nav.RouteRidesList, nav.Params{
		"rideType":    b.Draft.RideType,
		"destination": b.Draft.Destination,
	})
}
