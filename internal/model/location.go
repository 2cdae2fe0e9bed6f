package model

import "time"

// Position is one raw geolocation sample from the device.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// LocationFix is a position sample plus its reverse-geocoded address.
// Immutable once created; the location service replaces it wholesale on the
// next fix.
type LocationFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// AddressUnavailable marks a fix whose reverse-geocode lookup failed. The fix
// itself still resolves successfully.
const AddressUnavailable = "Address unavailable"
