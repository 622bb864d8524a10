package pricing

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestQuotePipeline(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name           string
		in             QuoteInput
		wantTotal      float64
		wantCategory   Category
		wantBand       Band
		wantDelivery   DeliveryType
		wantMinApplied bool
	}{
		{
			name:         "sedan mid haul with all defaults",
			in:           QuoteInput{VehicleType: "sedan", DistanceMiles: 800},
			wantTotal:    760.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "truck bulk flexible with surge and fuel adjustment",
			in: QuoteInput{
				VehicleType:        "pickup truck",
				DistanceMiles:      1200,
				VehicleCount:       4,
				SurgeMultiplier:    1.2,
				PickupDate:         "2026-10-01",
				DeliveryDate:       "2026-10-11",
				FuelPricePerGallon: floatPtr(4.20),
			},
			wantTotal:    1451.28,
			wantCategory: CategoryTruck,
			wantBand:     BandMid,
			wantDelivery: DeliveryFlexible,
		},
		{
			name: "pickup date without delivery date prices expedited",
			in: QuoteInput{
				VehicleType:   "sedan",
				DistanceMiles: 800,
				PickupDate:    "2026-10-01",
			},
			wantTotal:    950.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryExpedited,
		},
		{
			name: "garbled delivery date drops back to standard",
			in: QuoteInput{
				VehicleType:   "sedan",
				DistanceMiles: 800,
				PickupDate:    "2026-10-01",
				DeliveryDate:  "next tuesday",
			},
			wantTotal:    760.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "cross country sedan with a one week window",
			in: QuoteInput{
				VehicleType:   "sedan",
				DistanceMiles: 1358,
				PickupDate:    "2025-10-13",
				DeliveryDate:  "2025-10-20",
			},
			wantTotal:    1225.59,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryFlexible,
		},
		{
			name:           "local sedan run floors to the minimum",
			in:             QuoteInput{VehicleType: "sedan", DistanceMiles: 50},
			wantTotal:      150.00,
			wantCategory:   CategorySedan,
			wantBand:       BandShort,
			wantDelivery:   DeliveryStandard,
			wantMinApplied: true,
		},
		{
			name:         "accident recovery truck at the flat rate",
			in:           QuoteInput{VehicleType: "truck", DistanceMiles: 300, IsAccidentRecovery: true},
			wantTotal:    900.00,
			wantCategory: CategoryTruck,
			wantBand:     BandShort,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "long haul with surge and expensive fuel",
			in: QuoteInput{
				VehicleType:        "sedan",
				DistanceMiles:      2000,
				SurgeMultiplier:    1.5,
				FuelPricePerGallon: floatPtr(5.70),
			},
			wantTotal:    1980.00,
			wantCategory: CategorySedan,
			wantBand:     BandLong,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "cheap fuel lowers the price",
			in: QuoteInput{
				VehicleType:        "sedan",
				DistanceMiles:      800,
				FuelPricePerGallon: floatPtr(3.20),
			},
			wantTotal:    741.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryStandard,
		},
		{
			name:           "accident recovery floor",
			in:             QuoteInput{VehicleType: "sedan", DistanceMiles: 20, IsAccidentRecovery: true},
			wantTotal:      80.00,
			wantCategory:   CategorySedan,
			wantBand:       BandShort,
			wantDelivery:   DeliveryStandard,
			wantMinApplied: true,
		},
		{
			name:         "accident recovery above the floor",
			in:           QuoteInput{VehicleType: "sedan", DistanceMiles: 40, IsAccidentRecovery: true},
			wantTotal:    100.00,
			wantCategory: CategorySedan,
			wantBand:     BandShort,
			wantDelivery: DeliveryStandard,
		},
		{
			name:           "short haul minimum",
			in:             QuoteInput{VehicleType: "suv", DistanceMiles: 50},
			wantTotal:      150.00,
			wantCategory:   CategorySUV,
			wantBand:       BandShort,
			wantDelivery:   DeliveryStandard,
			wantMinApplied: true,
		},
		{
			name:         "short haul above the minimum",
			in:           QuoteInput{VehicleType: "suv", DistanceMiles: 90},
			wantTotal:    180.00,
			wantCategory: CategorySUV,
			wantBand:     BandShort,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "exactly 100 miles is exempt from the short haul minimum",
			in: QuoteInput{
				VehicleType:   "sedan",
				DistanceMiles: 100,
				VehicleCount:  10,
			},
			wantTotal:    144.00,
			wantCategory: CategorySedan,
			wantBand:     BandShort,
			wantDelivery: DeliveryStandard,
		},
		{
			name:           "zero distance still floors",
			in:             QuoteInput{VehicleType: "sedan", DistanceMiles: 0},
			wantTotal:      150.00,
			wantCategory:   CategorySedan,
			wantBand:       BandShort,
			wantDelivery:   DeliveryStandard,
			wantMinApplied: true,
		},
		{
			name:         "unknown vehicle type priced as sedan",
			in:           QuoteInput{VehicleType: "spaceship", DistanceMiles: 800},
			wantTotal:    760.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryStandard,
		},
		{
			name: "zero surge and zero count fall back to defaults",
			in: QuoteInput{
				VehicleType:     "sedan",
				DistanceMiles:   800,
				VehicleCount:    0,
				SurgeMultiplier: 0,
			},
			wantTotal:    760.00,
			wantCategory: CategorySedan,
			wantBand:     BandMid,
			wantDelivery: DeliveryStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Quote(tt.in)
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %.2f, want %.2f", got.Total, tt.wantTotal)
			}
			if got.VehicleCategory != tt.wantCategory {
				t.Errorf("VehicleCategory = %s, want %s", got.VehicleCategory, tt.wantCategory)
			}
			if got.DistanceBand != tt.wantBand {
				t.Errorf("DistanceBand = %s, want %s", got.DistanceBand, tt.wantBand)
			}
			if got.DeliveryType != tt.wantDelivery {
				t.Errorf("DeliveryType = %s, want %s", got.DeliveryType, tt.wantDelivery)
			}
			if got.MinimumApplied != tt.wantMinApplied {
				t.Errorf("MinimumApplied = %v, want %v", got.MinimumApplied, tt.wantMinApplied)
			}
		})
	}
}

func TestQuoteIsDeterministic(t *testing.T) {
	engine := NewEngine(nil)
	in := QuoteInput{
		VehicleType:        "suv",
		DistanceMiles:      675.5,
		VehicleCount:       7,
		SurgeMultiplier:    1.1,
		FuelPricePerGallon: floatPtr(4.05),
	}

	first := engine.Quote(in)
	for i := 0; i < 5; i++ {
		if got := engine.Quote(in); got != first {
			t.Fatalf("quote %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestQuoteBreakdownAddsUp(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.Quote(QuoteInput{
		VehicleType:   "truck",
		DistanceMiles: 1200,
		VehicleCount:  4,
	})

	if got.RawBasePrice != 1380.00 {
		t.Errorf("RawBasePrice = %.2f, want 1380.00", got.RawBasePrice)
	}
	if got.BulkDiscountPercent != 10 {
		t.Errorf("BulkDiscountPercent = %.0f, want 10", got.BulkDiscountPercent)
	}
	if got.BulkDiscountAmount != 138.00 {
		t.Errorf("BulkDiscountAmount = %.2f, want 138.00", got.BulkDiscountAmount)
	}
	if got.BaseRatePerMile != 1.15 {
		t.Errorf("BaseRatePerMile = %.2f, want 1.15", got.BaseRatePerMile)
	}
	if got.Total != 1242.00 {
		t.Errorf("Total = %.2f, want 1242.00", got.Total)
	}
}

func TestQuoteCrossCountryBreakdown(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.Quote(QuoteInput{
		VehicleType:   "sedan",
		DistanceMiles: 1358,
		PickupDate:    "2025-10-13",
		DeliveryDate:  "2025-10-20",
	})

	// 1358 miles sits inside the mid band, which runs up to and
	// including 1500.
	if got.DistanceBand != BandMid {
		t.Errorf("DistanceBand = %s, want %s", got.DistanceBand, BandMid)
	}
	if got.BaseRatePerMile != 0.95 {
		t.Errorf("BaseRatePerMile = %.2f, want 0.95", got.BaseRatePerMile)
	}
	if got.RawBasePrice != 1290.10 {
		t.Errorf("RawBasePrice = %.2f, want 1290.10", got.RawBasePrice)
	}
	if got.DeliveryType != DeliveryFlexible || got.DeliveryTypeMultiplier != 0.95 {
		t.Errorf("delivery = %s/%.2f, want flexible/0.95", got.DeliveryType, got.DeliveryTypeMultiplier)
	}
	if got.Total != 1225.59 {
		t.Errorf("Total = %.2f, want 1225.59", got.Total)
	}
}

func TestBulkDiscountPercent(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0}, {1, 0}, {2, 0},
		{3, 10}, {5, 10},
		{6, 15}, {9, 15},
		{10, 20}, {50, 20},
	}
	for _, tt := range tests {
		if got := BulkDiscountPercent(tt.count); got != tt.want {
			t.Errorf("BulkDiscountPercent(%d) = %.0f, want %.0f", tt.count, got, tt.want)
		}
	}
}

func TestFuelAdjustmentPercent(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{3.70, 0},
		{4.70, 5},
		{2.70, -5},
		{5.70, 10},
	}
	for _, tt := range tests {
		if got := FuelAdjustmentPercent(tt.price); got != tt.want {
			t.Errorf("FuelAdjustmentPercent(%.2f) = %.2f, want %.2f", tt.price, got, tt.want)
		}
	}
}
