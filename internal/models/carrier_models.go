// Package models defines the data structures used across the vehicle
// shipping platform.
package models

import "time"

// Carrier statuses.
const (
	CarrierStatusIdle        = "IDLE"
	CarrierStatusInTransit   = "IN_TRANSIT"
	CarrierStatusMaintenance = "MAINTENANCE"
)

// Carrier represents a transport truck in the fleet, operated by a driver.
type Carrier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TruckType     string    `json:"truck_type"` // open or enclosed trailer
	Status        string    `json:"status"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	VehicleSlots  int       `json:"vehicle_slots"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CarrierStatusUpdateRequest contains fields for updating a carrier's
// status and last known position.
type CarrierStatusUpdateRequest struct {
	Status    string  `json:"status" validate:"required,oneof=IDLE IN_TRANSIT MAINTENANCE"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
