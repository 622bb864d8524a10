package pricing

import "math"

// Band is the discrete distance tier that selects the base per-mile rate.
type Band string

const (
	BandShort Band = "short"
	BandMid   Band = "mid"
	BandLong  Band = "long"
)

const (
	shortBandMaxMiles = 500
	midBandMaxMiles   = 1500
)

// ClassifyDistance maps a road distance in miles to its pricing band.
// Boundaries are inclusive on the low side: 500 miles is still short,
// 1500 is still mid. The band depends only on distance, never on the
// accident-recovery flag.
func ClassifyDistance(distanceMiles float64) Band {
	switch {
	case distanceMiles <= shortBandMaxMiles:
		return BandShort
	case distanceMiles <= midBandMaxMiles:
		return BandMid
	default:
		return BandLong
	}
}

const (
	earthRadiusMiles = 3959.0

	// roadCorrectionFactor scales great-circle distance up to an
	// approximation of actual driving distance. This is a heuristic,
	// not a routing-engine result.
	roadCorrectionFactor = 1.15
)

// RoadMiles estimates the driving distance in miles between two points
// given in decimal degrees, using the haversine formula corrected by a
// fixed road factor and rounded to 2 decimals.
func RoadMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusMiles * c * roadCorrectionFactor)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// round2 rounds to cents. Only the final total and display fields go
// through this; the running subtotal stays unrounded through the
// pipeline to avoid cumulative drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
