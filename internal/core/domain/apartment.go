package domain

import "time"

// Apartment is a rentable unit. IsOccupied mirrors the existence of an active lease
// and is only ever written by the lease lifecycle.
type Apartment struct {
	ID          uint      `json:"id"`
	Address     string    `json:"address"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   float64   `json:"bathrooms"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description,omitempty"`
	IsOccupied  bool      `json:"is_occupied"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApartmentFilter holds the optional inclusive thresholds of a listing query.
type ApartmentFilter struct {
	MinPrice *float64
	MaxPrice *float64
	MinBeds  *int
	MinBaths *float64
	// IncludeOccupied is only set by admin listings.
	IncludeOccupied bool
}

// OccupancyDrift describes an apartment whose occupied flag disagrees with its leases.
type OccupancyDrift struct {
	ApartmentID  uint
	IsOccupied   bool
	ActiveLeases int
}
