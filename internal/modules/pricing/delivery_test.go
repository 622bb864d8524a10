package pricing

import (
	"testing"
	"time"
)

func TestResolveDeliveryType(t *testing.T) {
	tests := []struct {
		name           string
		pickup         string
		delivery       string
		wantType       DeliveryType
		wantMultiplier float64
	}{
		{"no pickup date", "", "2026-10-11", DeliveryStandard, 1.0},
		{"no dates at all", "", "", DeliveryStandard, 1.0},
		{"pickup only means asap", "2026-10-01", "", DeliveryExpedited, 1.25},
		{"same day", "2026-10-01", "2026-10-01", DeliveryExpedited, 1.25},
		{"six day window", "2026-10-01", "2026-10-07", DeliveryExpedited, 1.25},
		{"six and a half days rounds up to seven", "2026-10-01", "2026-10-07 12:00:00", DeliveryFlexible, 0.95},
		{"exactly seven days", "2026-10-01", "2026-10-08", DeliveryFlexible, 0.95},
		{"thirty day window", "2026-10-01", "2026-10-31", DeliveryFlexible, 0.95},
		{"garbled pickup date", "next tuesday", "2026-10-11", DeliveryStandard, 1.0},
		{"garbled delivery date", "2026-10-01", "someday", DeliveryStandard, 1.0},
		{"garbled delivery date never reads as asap", "2026-10-01", "10/11/2026", DeliveryStandard, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotMultiplier := ResolveDeliveryType(tt.pickup, tt.delivery)
			if gotType != tt.wantType {
				t.Errorf("type = %s, want %s", gotType, tt.wantType)
			}
			if gotMultiplier != tt.wantMultiplier {
				t.Errorf("multiplier = %.2f, want %.2f", gotMultiplier, tt.wantMultiplier)
			}
		})
	}
}

func TestParseShipmentDate(t *testing.T) {
	tests := []struct {
		input   string
		wantNil bool
	}{
		{"", true},
		{"2026-10-01", false},
		{"2026-10-01T15:04:05Z", false},
		{"2026-10-01 15:04:05", false},
		{"10/01/2026", true},
		{"next tuesday", true},
	}

	for _, tt := range tests {
		got := ParseShipmentDate(tt.input)
		if (got == nil) != tt.wantNil {
			t.Errorf("ParseShipmentDate(%q) nil = %v, want %v", tt.input, got == nil, tt.wantNil)
		}
	}

	if got := ParseShipmentDate("2026-10-01"); got != nil {
		want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ParseShipmentDate(2026-10-01) = %v, want %v", got, want)
		}
	}
}
