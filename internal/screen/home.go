package screen

import (
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// Home is the first authenticated tab root: an entry point into the
// booking flow plus a dismissible feature tour.
type Home struct {
	deps Deps

	ShowTour bool
}

func NewHome(deps Deps) *Home {
	return &Home{deps: deps}
}

func (h *Home) Route() string { return nav.RouteHome }

func (h *Home) Mount(_ nav.Params) {
	h.ShowTour = true
}

func (h *Home) Unmount() {}

// DismissTour hides the intro card until the screen is next mounted.
func (h *Home) DismissTour() { h.ShowTour = false }

// BookRide opens the booking flow, optionally preselecting a vehicle class
// when the rider tapped a specific ride card.
func (h *Home) BookRide(rideType model.RideType) {
	var params nav.Params
	if rideType != "" {
		params = nav.Params{"rideType": rideType}
	}
	h.deps.Nav.Push(nav.RouteRideBooking, params)
}

// Greeting is the header line shown above the ride cards.
func (h *Home) Greeting() string {
	if s := h.deps.Session.Session(); s != nil && s.Email != "" {
		return "Where to today, " + s.Email + "?"
	}
	return "Where to today?"
}
