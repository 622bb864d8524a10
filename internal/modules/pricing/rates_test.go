package pricing

import "testing"

func TestDefaultRateTable(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		category Category
		want     Rate
	}{
		{CategorySedan, Rate{Short: 1.80, Mid: 0.95, Long: 0.60, Accident: 2.50}},
		{CategorySUV, Rate{Short: 2.00, Mid: 1.05, Long: 0.70, Accident: 2.75}},
		{CategoryTruck, Rate{Short: 2.20, Mid: 1.15, Long: 0.75, Accident: 3.00}},
	}

	for _, tt := range tests {
		if got := table[tt.category]; got != tt.want {
			t.Errorf("%s rates = %+v, want %+v", tt.category, got, tt.want)
		}
	}
}

func TestNormalizeVehicleType(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"sedan", CategorySedan},
		{"Sedan", CategorySedan},
		{"  SEDAN  ", CategorySedan},
		{"coupe", CategorySedan},
		{"hatchback", CategorySedan},
		{"convertible", CategorySedan},
		{"wagon", CategorySedan},
		{"sports car", CategorySedan},
		{"suv", CategorySUV},
		{"crossover", CategorySUV},
		{"van", CategorySUV},
		{"minivan", CategorySUV},
		{"truck", CategoryTruck},
		{"pickup", CategoryTruck},
		{"Pickup Truck", CategoryTruck},
		{"", CategorySedan},
		{"motorcycle", CategorySedan},
		{"boat", CategorySedan},
	}

	for _, tt := range tests {
		if got := NormalizeVehicleType(tt.input); got != tt.want {
			t.Errorf("NormalizeVehicleType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestPerMileRate(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		name     string
		category Category
		band     Band
		accident bool
		want     float64
	}{
		{"sedan short", CategorySedan, BandShort, false, 1.80},
		{"sedan mid", CategorySedan, BandMid, false, 0.95},
		{"sedan long", CategorySedan, BandLong, false, 0.60},
		{"truck long", CategoryTruck, BandLong, false, 0.75},
		{"accident overrides band", CategorySUV, BandLong, true, 2.75},
		{"missing category falls back to sedan", Category("rv"), BandShort, false, 1.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.PerMileRate(tt.category, tt.band, tt.accident); got != tt.want {
				t.Errorf("PerMileRate = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}
