package model

// Built-in sample data. Every screen must render meaningfully with zero
// parameters so it can be demoed and tested in isolation; these values are
// the documented fallbacks.

// SampleRideOptions are the three vehicle classes shown on the booking screen.
func SampleRideOptions() []RideOption {
	return []RideOption{
		{Type: RideBike, Title: "Bike", Subtitle: "Quick & cheap", ETA: "12 min", Price: "$5"},
		{Type: RideCar, Title: "Car", Subtitle: "Comfort & fast", ETA: "8 min", Price: "$12"},
		{Type: RideBus, Title: "Auto/Bus", Subtitle: "Eco-friendly", ETA: "15 min", Price: "$3"},
	}
}

// SampleDestinations are the fixed destination choices on the booking screen.
func SampleDestinations() []string {
	return []string{
		"Where do you want to go?",
		"Choose a saved place",
		"Set destination on map",
		"Request a ride for someone",
	}
}

// SampleRides is the fallback ride list used when the gateway has no data.
func SampleRides() []Ride {
	return []Ride{
		{
			ID: "ride-1", DriverName: "Alice Johnson", DriverRating: 4.8, Vehicle: "Car",
			Pickup: "Central Plaza", Destination: "Downtown Office",
			PickupTime: "10:00 AM", DropTime: "10:20 AM",
			Price: 15.50, Distance: "8.5 km", EstimatedTime: "20 min",
		},
		{
			ID: "ride-2", DriverName: "Bob Williams", DriverRating: 4.6, Vehicle: "Bike",
			Pickup: "Main Street Cafe", Destination: "Riverside Park",
			PickupTime: "10:15 AM", DropTime: "10:30 AM",
			Price: 8.00, Distance: "4.2 km", EstimatedTime: "15 min",
		},
		{
			ID: "ride-3", DriverName: "Charlie Brown", DriverRating: 4.9, Vehicle: "Auto",
			Pickup: "Westside Market", Destination: "Museum District",
			PickupTime: "10:30 AM", DropTime: "10:45 AM",
			Price: 12.75, Distance: "6.1 km", EstimatedTime: "15 min",
		},
		{
			ID: "ride-4", DriverName: "Diana Prince", DriverRating: 4.7, Vehicle: "Car",
			Pickup: "University Campus", Destination: "Tech Hub",
			PickupTime: "10:40 AM", DropTime: "11:00 AM",
			Price: 18.00, Distance: "12.3 km", EstimatedTime: "20 min",
		},
	}
}

// SampleBooking is the fallback confirmation payload.
func SampleBooking() Booking {
	return Booking{
		BookingID:        "BK-2024-789",
		From:             "123 Riverdale Ave",
		To:               "456 Central St",
		DateTime:         "Fri, Jul 19, 10:30 AM",
		VehicleType:      "Premium Sedan",
		Fare:             28.50,
		DriverName:       "Sarah Johnson",
		DriverRating:     4.8,
		DriverPhone:      "+1-555-0123",
		VehicleModel:     "Toyota Camry",
		VehicleNumber:    "ABC-1234",
		EstimatedArrival: "8 minutes",
		Distance:         "12.5 km",
		Duration:         "25 minutes",
	}
}

// SampleTrip is the fallback payload for the ride details modal.
func SampleTrip() Booking {
	return Booking{
		BookingID:        "TR-2024-001",
		From:             "Current location",
		To:               "3342 Hill Street, Jacksonville, FL 32202",
		VehicleType:      "Car",
		Fare:             12.32,
		DriverName:       "Joshua",
		DriverRating:     4.9,
		DriverPhone:      "+1234567890",
		VehicleModel:     "BMW-R2",
		VehicleNumber:    "382-SOD23",
		EstimatedArrival: "12 min",
		Distance:         "4.3km",
	}
}
