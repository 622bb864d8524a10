package models

import (
	"database/sql"
	"time"
)

// Shipment statuses. A shipment is booked from a quote, assigned to a
// carrier, driven, and delivered; cancellation is only possible while it
// is still pending.
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusAssigned  = "assigned"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusCancelled = "cancelled"
)

// Shipment represents a booked vehicle transport in the system.
type Shipment struct {
	ID               int            `json:"id"`
	UserID           string         `json:"user_id"`
	CarrierID        sql.NullString `json:"carrier_id,omitempty"`
	Status           string         `json:"status"`
	VehicleType      string         `json:"vehicle_type"`
	VehicleCount     int            `json:"vehicle_count"`
	PickupAddress    string         `json:"pickup_address"`
	DeliveryAddress  string         `json:"delivery_address"`
	PickupLat        float64        `json:"pickup_lat"`
	PickupLng        float64        `json:"pickup_lng"`
	DeliveryLat      float64        `json:"delivery_lat"`
	DeliveryLng      float64        `json:"delivery_lng"`
	DistanceMiles    float64        `json:"distance_miles"`
	DeliveryType     string         `json:"delivery_type"`
	QuotedTotal      float64        `json:"quoted_total"`
	PickupDate       sql.NullTime   `json:"pickup_date,omitempty"`
	DeliveryDate     sql.NullTime   `json:"delivery_date,omitempty"`
	FeedbackRating   sql.NullInt32  `json:"feedback_rating,omitempty"`
	FeedbackComment  sql.NullString `json:"feedback_comment,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CreateShipmentRequest books a shipment from a previously issued quote.
// The quoted price and distance are taken from the server-side quote, not
// from the client.
type CreateShipmentRequest struct {
	QuoteID         string  `json:"quote_id" validate:"required"`
	PickupAddress   string  `json:"pickup_address" validate:"required,min=5"`
	DeliveryAddress string  `json:"delivery_address" validate:"required,min=5"`
	PickupLat       float64 `json:"pickup_lat" validate:"gte=-90,lte=90"`
	PickupLng       float64 `json:"pickup_lng" validate:"gte=-180,lte=180"`
	DeliveryLat     float64 `json:"delivery_lat" validate:"gte=-90,lte=90"`
	DeliveryLng     float64 `json:"delivery_lng" validate:"gte=-180,lte=180"`
}

// AdminUpdateShipmentRequest represents the fields an admin can change on
// a shipment.
type AdminUpdateShipmentRequest struct {
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=pending assigned in_transit delivered cancelled"`
	CarrierID *string `json:"carrier_id,omitempty" validate:"omitempty,uuid"`
}

// FeedbackRequest is the body for rating a delivered shipment.
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}
