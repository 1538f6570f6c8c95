// Package model contains the domain types shared by the RideFlow client.
// Persistent entities (profiles, rides, bookings, settings) live behind the
// backend gateway; everything else is transient view state.
package model

import "time"

// ─── Enums ──────────────────────────────────────────────────

// RideType is the vehicle class a rider can request.
type RideType string

const (
	RideBike RideType = "bike"
	RideCar  RideType = "car"
	RideBus  RideType = "bus"
)

// Valid reports whether the ride type is one of the fixed set.
func (r RideType) Valid() bool {
	switch r {
	case RideBike, RideCar, RideBus:
		return true
	}
	return false
}

// RideStatus is the live status of an active ride.
type RideStatus string

const (
	StatusArriving  RideStatus = "arriving"
	StatusPickedUp  RideStatus = "picked_up"
	StatusInTransit RideStatus = "in_transit"
)

// Label returns the rider-facing text for a status.
func (s RideStatus) Label() string {
	switch s {
	case StatusArriving:
		return "Driver is arriving"
	case StatusPickedUp:
		return "Picked up"
	case StatusInTransit:
		return "On the way"
	default:
		return "Tracking ride"
	}
}

// Theme is the app appearance preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ─── Location ───────────────────────────────────────────────

// Coordinate is a WGS-84 geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ─── Identity ───────────────────────────────────────────────

// Session is proof of authentication, held in memory for the app lifetime.
// It is never persisted across process restarts.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Profile maps to the `profiles` collection.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ─── Rides & Bookings ───────────────────────────────────────

// RideOption is one selectable vehicle class on the booking screen.
type RideOption struct {
	Type     RideType `json:"type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	ETA      string   `json:"eta"`
	Price    string   `json:"price"`
}

// Ride maps to the `rides` collection: one bookable ride offer.
type Ride struct {
	ID            string  `json:"id"`
	DriverName    string  `json:"driver_name"`
	DriverRating  float64 `json:"driver_rating"`
	DriverAvatar  string  `json:"driver_avatar,omitempty"`
	Vehicle       string  `json:"vehicle"`
	Pickup        string  `json:"pickup"`
	Destination   string  `json:"destination"`
	PickupTime    string  `json:"pickup_time"`
	DropTime      string  `json:"drop_time"`
	Price         float64 `json:"price"`
	Distance      string  `json:"distance"`
	EstimatedTime string  `json:"estimated_time"`
}

// BookingDraft is the in-progress, unsubmitted booking selection.
// It is valid for submission only when both fields are non-empty.
type BookingDraft struct {
	RideType    RideType `json:"ride_type"`
	Destination string   `json:"destination"`
}

// Complete reports whether the draft can be submitted.
func (d BookingDraft) Complete() bool {
	return d.RideType != "" && d.Destination != ""
}

// Booking is the confirmation payload carried from the booking flow to the
// confirmation screen. It is not persisted client-side beyond that screen.
type Booking struct {
	BookingID        string  `json:"booking_id"`
	From             string  `json:"from"`
	To               string  `json:"to"`
	DateTime         string  `json:"date_time"`
	VehicleType      string  `json:"vehicle_type"`
	Fare             float64 `json:"fare"`
	DriverName       string  `json:"driver_name"`
	DriverRating     float64 `json:"driver_rating"`
	DriverAvatar     string  `json:"driver_avatar,omitempty"`
	DriverPhone      string  `json:"driver_phone"`
	VehicleModel     string  `json:"vehicle_model"`
	VehicleNumber    string  `json:"vehicle_number"`
	EstimatedArrival string  `json:"estimated_arrival"`
	Distance         string  `json:"distance"`
	Duration         string  `json:"duration"`
}

// ─── Preferences ────────────────────────────────────────────

// Settings maps to the `settings` collection: per-user preference toggles.
// Each toggle takes effect immediately, there is no save step.
type Settings struct {
	TwoFactorAuth      bool   `json:"two_factor_auth"`
	PushNotifications  bool   `json:"push_notifications"`
	EmailNotifications bool   `json:"email_notifications"`
	SMSAlerts          bool   `json:"sms_alerts"`
	BiometricAuth      bool   `json:"biometric_auth"`
	LocationTracking   bool   `json:"location_tracking"`
	AutoBackup         bool   `json:"auto_backup"`
	Language           string `json:"language"`
	Theme              Theme  `json:"theme"`
}

// DefaultSettings are the values a fresh account starts with.
func DefaultSettings() Settings {
	return Settings{
		TwoFactorAuth:     true,
		PushNotifications: true,
		SMSAlerts:         true,
		LocationTracking:  true,
		AutoBackup:        true,
		Language:          "English",
		Theme:             ThemeLight,
	}
}
