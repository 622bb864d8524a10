// Package pricing implements the shared quote engine for the marketplace.
// The same pipeline used to be copied into every service that needed a
// price; it lives here once so the backend, mobile API, and website API
// can never drift apart again.
package pricing

import "strings"

// Category is one of the three canonical vehicle categories the rate
// table is keyed by. Free-form vehicle types from clients are normalized
// into a Category before any lookup.
type Category string

const (
	CategorySedan Category = "sedan"
	CategorySUV   Category = "suv"
	CategoryTruck Category = "truck"
)

// Rate holds the per-mile rates for a single vehicle category. Short,
// Mid, and Long apply by distance band; Accident is a flat per-mile rate
// that overrides the band rate for accident-recovery shipments.
type Rate struct {
	Short    float64
	Mid      float64
	Long     float64
	Accident float64
}

// RateTable maps each canonical category to its rates. Tables are treated
// as immutable values: build one, hand it to NewEngine, never mutate it.
type RateTable map[Category]Rate

// DefaultRateTable returns the built-in rate table. It is the fallback
// whenever no admin-configured table is available.
func DefaultRateTable() RateTable {
	return RateTable{
		CategorySedan: {Short: 1.80, Mid: 0.95, Long: 0.60, Accident: 2.50},
		CategorySUV:   {Short: 2.00, Mid: 1.05, Long: 0.70, Accident: 2.75},
		CategoryTruck: {Short: 2.20, Mid: 1.15, Long: 0.75, Accident: 3.00},
	}
}

// NormalizeVehicleType maps a free-form vehicle type string to a
// canonical category. Unrecognized strings map to sedan; that fallback is
// a deliberate pricing policy, not an error, so callers never need to
// pre-validate the string.
func NormalizeVehicleType(vehicleType string) Category {
	switch strings.ToLower(strings.TrimSpace(vehicleType)) {
	case "sedan", "coupe", "hatchback", "convertible", "wagon", "sports car":
		return CategorySedan
	case "suv", "crossover", "van", "minivan":
		return CategorySUV
	case "truck", "pickup", "pickup truck":
		return CategoryTruck
	default:
		return CategorySedan
	}
}

// PerMileRate returns the applicable per-mile rate for a category. The
// accident rate wins over the band rate whenever accidentRecovery is set.
func (t RateTable) PerMileRate(category Category, band Band, accidentRecovery bool) float64 {
	rate, ok := t[category]
	if !ok {
		rate = t[CategorySedan]
	}
	if accidentRecovery {
		return rate.Accident
	}
	switch band {
	case BandShort:
		return rate.Short
	case BandMid:
		return rate.Mid
	default:
		return rate.Long
	}
}
