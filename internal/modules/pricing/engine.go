package pricing

import "math"

const (
	// BaselineFuelPrice is the national average the fuel adjustment is
	// measured against, in dollars per gallon.
	BaselineFuelPrice = 3.70

	// fuelPercentPerDollar: every $1 deviation from the baseline moves
	// the price by 5%. There is intentionally no cap in either direction.
	fuelPercentPerDollar = 5.0

	// Minimum-quote floors, applied only after every multiplier.
	accidentMinimum       = 80.0
	shortHaulMinimum      = 150.0
	shortHaulMinimumMiles = 100.0
)

// QuoteInput is the engine's input record. Optional fields follow the
// permissive contract: an empty date means unscheduled, an unparseable
// one drops to standard scheduling, a nil fuel price means the baseline,
// a zero count or surge means the default. The engine never errors on
// malformed optional input; strict validation of distances and counts
// belongs to the HTTP layer.
type QuoteInput struct {
	VehicleType        string
	DistanceMiles      float64
	IsAccidentRecovery bool
	VehicleCount       int
	SurgeMultiplier    float64
	PickupDate         string
	DeliveryDate       string
	FuelPricePerGallon *float64
}

// Breakdown is the full audit record for one quote. All monetary and
// percentage fields are rounded to 2 decimals for display; Total is
// computed from the unrounded running subtotal.
type Breakdown struct {
	VehicleCategory        Category
	DistanceBand           Band
	DistanceMiles          float64
	BaseRatePerMile        float64
	RawBasePrice           float64
	BulkDiscountPercent    float64
	BulkDiscountAmount     float64
	SurgeMultiplier        float64
	DeliveryType           DeliveryType
	DeliveryTypeMultiplier float64
	FuelPricePerGallon     float64
	FuelAdjustmentPercent  float64
	MinimumApplied         bool
	Total                  float64
}

// Engine computes deterministic shipping quotes from an injected rate
// table. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rates RateTable
}

// NewEngine builds an engine around the given rate table. A nil or empty
// table falls back to the built-in defaults.
func NewEngine(rates RateTable) *Engine {
	if len(rates) == 0 {
		rates = DefaultRateTable()
	}
	return &Engine{rates: rates}
}

// BulkDiscountPercent returns the discount tier for shipping several
// vehicles under one quote.
func BulkDiscountPercent(vehicleCount int) float64 {
	switch {
	case vehicleCount >= 10:
		return 20
	case vehicleCount >= 6:
		return 15
	case vehicleCount >= 3:
		return 10
	default:
		return 0
	}
}

// FuelAdjustmentPercent converts a fuel price into a linear percentage
// adjustment relative to the baseline. Negative below baseline, positive
// above, unbounded either way.
func FuelAdjustmentPercent(fuelPricePerGallon float64) float64 {
	return (fuelPricePerGallon - BaselineFuelPrice) * fuelPercentPerDollar
}

// Quote runs the pricing pipeline. The step order is load-bearing: the
// bulk discount applies to the raw base price, surge and delivery
// multipliers compound on the discounted figure, the fuel multiplier
// comes after those, and the minimum floor is checked only once
// everything else has been applied.
func (e *Engine) Quote(in QuoteInput) Breakdown {
	category := NormalizeVehicleType(in.VehicleType)
	band := ClassifyDistance(in.DistanceMiles)
	baseRate := e.rates.PerMileRate(category, band, in.IsAccidentRecovery)

	rawBasePrice := baseRate * in.DistanceMiles

	vehicleCount := in.VehicleCount
	if vehicleCount < 1 {
		vehicleCount = 1
	}
	discountPercent := BulkDiscountPercent(vehicleCount)
	discountAmount := rawBasePrice * discountPercent / 100

	surge := in.SurgeMultiplier
	if surge <= 0 {
		surge = 1.0
	}

	deliveryType, deliveryMultiplier := ResolveDeliveryType(in.PickupDate, in.DeliveryDate)

	subtotal := (rawBasePrice - discountAmount) * surge * deliveryMultiplier

	fuelPrice := BaselineFuelPrice
	if in.FuelPricePerGallon != nil && *in.FuelPricePerGallon > 0 {
		fuelPrice = *in.FuelPricePerGallon
	}
	fuelPercent := FuelAdjustmentPercent(fuelPrice)
	subtotal *= 1 + fuelPercent/100

	minimumApplied := false
	if in.IsAccidentRecovery {
		if subtotal < accidentMinimum {
			subtotal = accidentMinimum
			minimumApplied = true
		}
	} else if in.DistanceMiles < shortHaulMinimumMiles && subtotal < shortHaulMinimum {
		subtotal = shortHaulMinimum
		minimumApplied = true
	}

	total := round2(math.Max(0, subtotal))

	return Breakdown{
		VehicleCategory:        category,
		DistanceBand:           band,
		DistanceMiles:          round2(in.DistanceMiles),
		BaseRatePerMile:        round2(baseRate),
		RawBasePrice:           round2(rawBasePrice),
		BulkDiscountPercent:    discountPercent,
		BulkDiscountAmount:     round2(discountAmount),
		SurgeMultiplier:        surge,
		DeliveryType:           deliveryType,
		DeliveryTypeMultiplier: deliveryMultiplier,
		FuelPricePerGallon:     round2(fuelPrice),
		FuelAdjustmentPercent:  round2(fuelPercent),
		MinimumApplied:         minimumApplied,
		Total:                  total,
	}
}
