package pricing

import (
	"math"
	"time"
)

// DeliveryType classifies the urgency of a shipment from the gap between
// its pickup and delivery dates.
type DeliveryType string

const (
	DeliveryStandard  DeliveryType = "standard"
	DeliveryExpedited DeliveryType = "expedited"
	DeliveryFlexible  DeliveryType = "flexible"
)

const (
	standardMultiplier  = 1.0
	expeditedMultiplier = 1.25
	flexibleMultiplier  = 0.95

	// flexibleWindowDays is the minimum pickup-to-delivery gap that
	// qualifies for the flexible discount. Anything shorter is expedited.
	flexibleWindowDays = 7
)

// ResolveDeliveryType returns the delivery type and its price multiplier
// from the raw optional date strings. A missing pickup date means
// standard scheduling; a pickup date with no delivery date is treated as
// "as soon as possible" and priced expedited. When both are present the
// gap in days (rounded up) decides. A date that was supplied but fails
// to parse discards the scheduling info and resolves to standard, so a
// garbled delivery date never upgrades a shipment to expedited pricing.
func ResolveDeliveryType(pickupRaw, deliveryRaw string) (DeliveryType, float64) {
	pickup := ParseShipmentDate(pickupRaw)
	delivery := ParseShipmentDate(deliveryRaw)
	if (pickupRaw != "" && pickup == nil) || (deliveryRaw != "" && delivery == nil) {
		return DeliveryStandard, standardMultiplier
	}
	if pickup == nil {
		return DeliveryStandard, standardMultiplier
	}
	if delivery == nil {
		return DeliveryExpedited, expeditedMultiplier
	}
	daysDiff := math.Ceil(delivery.Sub(*pickup).Hours() / 24)
	if daysDiff < flexibleWindowDays {
		return DeliveryExpedited, expeditedMultiplier
	}
	return DeliveryFlexible, flexibleMultiplier
}

// shipmentDateLayouts are the formats accepted for pickup/delivery dates
// on the wire. Clients send plain dates; mobile sends full timestamps.
var shipmentDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseShipmentDate parses an optional date string. Unparseable input
// yields nil rather than an error, matching the engine's permissive
// contract; callers that need to tell "absent" from "garbled" compare
// against the raw string, as ResolveDeliveryType does.
func ParseShipmentDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range shipmentDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
