package screen

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// RidesList shows the bookable rides. Data comes from the gateway `rides`
// collection when available and falls back to the built-in sample list, so
// the screen renders with no parameters and no backend.
type RidesList struct {
	deps Deps

	Rides      []model.Ride
	Refreshing bool
	SelectedID string
}

func NewRidesList(deps Deps) *RidesList {
	return &RidesList{deps: deps}
}

func (r *RidesList) Route() string { return nav.RouteRidesList }

func (r *RidesList) Mount(_ nav.Params) {
	r.load(context.Background())
}

func (r *RidesList) Unmount() {}

func (r *RidesList) load(ctx context.Context) {
	var rides []model.Ride
	if err := r.deps.Gateway.GetAll(ctx, "rides", &rides); err != nil || len(rides) == 0 {
		if err != nil {
			log.Printf("[rides] gateway list failed (%s), using sample data: %v", gateway.KindOf(err), err)
		}
		rides = model.SampleRides()
	}
	r.Rides = rides
}

// Refresh reloads the list; the flag lets the view show a spinner.
func (r *RidesList) Refresh(ctx context.Context) {
	r.Refreshing = true
	r.load(ctx)
	r.Refreshing = false
}

// RideByID finds a ride in the loaded list.
func (r *RidesList) RideByID(id string) (model.Ride, bool) {
	for _, ride := range r.Rides {
		if ride.ID == id {
			return ride, true
		}
	}
	return model.Ride{}, false
}

// ShowDetails presents the ride details overlay for one ride.
func (r *RidesList) ShowDetails(id string) {
	r.deps.Nav.Present(nav.RouteRideDetails, nav.Params{"rideId": id})
}

// Book runs the confirm-then-book flow for one ride. The confirmation is a
// required step: declining leaves everything untouched. Confirming builds
// the booking payload and carries it to the confirmation screen.
func (r *RidesList) Book(id string) {
	ride, ok := r.RideByID(id)
	if !ok {
		return
	}
	r.SelectedID = id
	confirmed := r.deps.Dialogs.Confirm(Dialog{
		Title: "Confirm Booking",
		Message: fmt.Sprintf("Book ride with %s?\nPrice: $%.2f\nEstimated time: %s",
			ride.DriverName, ride.Price, ride.EstimatedTime),
		ConfirmLabel: "Book",
		CancelLabel:  "Cancel",
	})
	r.SelectedID = ""
	if !confirmed {
		return
	}

	booking := bookingFromRide(ride)
	r.deps.Dialogs.Alert("Success", "Ride booked successfully!")
	r.deps.Nav.Push(nav.RouteBookingConfirmation, nav.Params{"bookingData": booking})
}

// bookingFromRide turns a listed ride into the confirmation payload.
func bookingFromRide(ride model.Ride) model.Booking {
	return model.Booking{
		BookingID:        "BK-" + uuid.NewString()[:8],
		From:             ride.Pickup,
		To:               ride.Destination,
		DateTime:         ride.PickupTime,
		VehicleType:      ride.Vehicle,
		Fare:             ride.Price,
		DriverName:       ride.DriverName,
		DriverRating:     ride.DriverRating,
		DriverAvatar:     ride.DriverAvatar,
		EstimatedArrival: ride.EstimatedTime,
		Distance:         ride.Distance,
		Duration:         ride.EstimatedTime,
	}
}
