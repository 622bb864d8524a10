package models

import "time"

// TrackingEvent represents a single position report from a carrier while
// it is hauling a shipment.
type TrackingEvent struct {
	ID         string    `json:"id"`
	ShipmentID int       `json:"shipment_id"`
	CarrierID  string    `json:"carrier_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackingEventRequest contains the data a carrier reports with each
// position update.
type TrackingEventRequest struct {
	CarrierID string  `json:"carrier_id" validate:"required,uuid"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
