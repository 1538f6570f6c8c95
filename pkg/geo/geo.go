// Package geo provides geographic helpers for the tracking screen.
//
// All distance calculations use the Haversine formula on WGS-84 coordinates.
// Travel time is estimated with a constant average speed; the real product
// would ask a routing engine.
package geo

import (
	"math"

	"github.com/rideflow/rideflow/internal/model"
)

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0

	// AverageSpeedKmph is the assumed average city driving speed.
	AverageSpeedKmph = 30.0
)

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b model.Coordinate) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// HaversineM returns the great-circle distance between two points in meters.
func HaversineM(a, b model.Coordinate) float64 {
	return HaversineKm(a, b) * 1000.0
}

// EstimateTimeMinutes returns the estimated direct travel time between two
// points in minutes, assuming AverageSpeedKmph.
func EstimateTimeMinutes(a, b model.Coordinate) float64 {
	return (HaversineKm(a, b) / AverageSpeedKmph) * 60.0
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
