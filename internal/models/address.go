package models

import "time"

// Address is a saved pickup or delivery location. Coordinates feed the
// road-distance estimate when a client requests a quote by address.
type Address struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"-" db:"user_id"`
	Label         string    `json:"label" db:"label"`
	StreetAddress string    `json:"street_address" db:"street_address"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	IsDefault     bool      `json:"is_default" db:"is_default"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// AddAddressRequest defines the shape of the request body for creating a new address.
type AddAddressRequest struct {
	Label         string  `json:"label" validate:"required,min=2"`
	StreetAddress string  `json:"street_address" validate:"required,min=10"`
	Latitude      float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64 `json:"longitude" validate:"gte=-180,lte=180"`
	IsDefault     bool    `json:"is_default"`
}

// UpdateAddressRequest defines the shape of the request body for updating an address.
type UpdateAddressRequest struct {
	Label         string   `json:"label,omitempty"`
	StreetAddress string   `json:"street_address,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	IsDefault     *bool    `json:"is_default,omitempty"` // Pointer to handle 'false' as a valid update
}
