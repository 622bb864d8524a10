package models

import "time"

// QuoteRequest is the body of POST /pricing/quote. Distance can be given
// directly, or derived from coordinates when all four are present and
// distance_miles is omitted.
type QuoteRequest struct {
	VehicleType        string  `json:"vehicle_type" validate:"required"`
	DistanceMiles      float64 `json:"distance_miles" validate:"gte=0"`
	PickupDate         string  `json:"pickup_date,omitempty"`
	DeliveryDate       string  `json:"delivery_date,omitempty"`
	IsAccidentRecovery bool    `json:"is_accident_recovery"`
	VehicleCount       int     `json:"vehicle_count" validate:"omitempty,gt=0"`
	SurgeMultiplier    float64 `json:"surge_multiplier" validate:"omitempty,gt=0"`
	FuelPricePerGallon float64 `json:"fuel_price_per_gallon" validate:"omitempty,gt=0"`

	PickupLat   float64 `json:"pickup_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	PickupLng   float64 `json:"pickup_lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	DeliveryLat float64 `json:"delivery_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	DeliveryLng float64 `json:"delivery_lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// QuoteBreakdown mirrors the engine's breakdown record on the wire.
type QuoteBreakdown struct {
	VehicleType            string  `json:"vehicle_type"`
	DistanceBand           string  `json:"distance_band"`
	DistanceMiles          float64 `json:"distance_miles"`
	BaseRatePerMile        float64 `json:"base_rate_per_mile"`
	RawBasePrice           float64 `json:"raw_base_price"`
	BulkDiscountPercent    float64 `json:"bulk_discount_percent"`
	BulkDiscountAmount     float64 `json:"bulk_discount_amount"`
	SurgeMultiplier        float64 `json:"surge_multiplier"`
	DeliveryType           string  `json:"delivery_type"`
	DeliveryTypeMultiplier float64 `json:"delivery_type_multiplier"`
	FuelPricePerGallon     float64 `json:"fuel_price_per_gallon"`
	FuelAdjustmentPercent  float64 `json:"fuel_adjustment_percent"`
	MinimumApplied         bool    `json:"minimum_applied"`
	Total                  float64 `json:"total"`
}

// QuoteResponse is returned to the client. The quote ID references a
// short-lived server-side copy used to book a shipment at the quoted
// price.
type QuoteResponse struct {
	QuoteID   string         `json:"quote_id"`
	Total     float64        `json:"total"`
	Breakdown QuoteBreakdown `json:"breakdown"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Quote is the cached server-side record behind a QuoteResponse.
type Quote struct {
	ID            string
	VehicleType   string
	VehicleCount  int
	DistanceMiles float64
	DeliveryType  string
	PickupDate    *time.Time
	DeliveryDate  *time.Time
	Total         float64
	Breakdown     QuoteBreakdown
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// PricingRate is one row of the admin-editable rate table.
type PricingRate struct {
	VehicleType  string    `json:"vehicle_type"`
	ShortRate    float64   `json:"short_rate"`
	MidRate      float64   `json:"mid_rate"`
	LongRate     float64   `json:"long_rate"`
	AccidentRate float64   `json:"accident_rate"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdatePricingRateRequest is the body for PUT /admin/pricing/rates/:vehicleType.
type UpdatePricingRateRequest struct {
	ShortRate    float64 `json:"short_rate" validate:"required,gt=0"`
	MidRate      float64 `json:"mid_rate" validate:"required,gt=0"`
	LongRate     float64 `json:"long_rate" validate:"required,gt=0"`
	AccidentRate float64 `json:"accident_rate" validate:"required,gt=0"`
}
