package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"auto-shipping/internal/models"
)

// fakeRateRepo serves a canned table, or errors, without a database.
type fakeRateRepo struct {
	table RateTable
	err   error
}

func (f *fakeRateRepo) ListRates(ctx context.Context) ([]*models.PricingRate, error) {
	return nil, f.err
}

func (f *fakeRateRepo) GetRateTable(ctx context.Context) (RateTable, error) {
	return f.table, f.err
}

func (f *fakeRateRepo) UpsertRate(ctx context.Context, vehicleType string, req models.UpdatePricingRateRequest) (*models.PricingRate, error) {
	return nil, f.err
}

func TestQuoteServiceIssuesBookableQuote(t *testing.T) {
	svc := NewService(nil)

	resp, err := svc.Quote(context.Background(), models.QuoteRequest{
		VehicleType:   "sedan",
		DistanceMiles: 800,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if resp.QuoteID == "" {
		t.Fatal("QuoteID is empty")
	}
	if resp.Total != 760.00 {
		t.Errorf("Total = %.2f, want 760.00", resp.Total)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, want in the future", resp.ExpiresAt)
	}
	if resp.Breakdown.Total != resp.Total {
		t.Errorf("Breakdown.Total = %.2f, want %.2f", resp.Breakdown.Total, resp.Total)
	}

	cached, err := svc.GetCachedQuote(resp.QuoteID)
	if err != nil {
		t.Fatalf("GetCachedQuote: %v", err)
	}
	if cached.Total != resp.Total {
		t.Errorf("cached Total = %.2f, want %.2f", cached.Total, resp.Total)
	}
	if cached.VehicleCount != 1 {
		t.Errorf("cached VehicleCount = %d, want 1", cached.VehicleCount)
	}
}

func TestQuoteServiceUnknownQuoteID(t *testing.T) {
	svc := NewService(nil)

	if _, err := svc.GetCachedQuote("no-such-quote"); !errors.Is(err, models.ErrQuoteExpired) {
		t.Errorf("err = %v, want ErrQuoteExpired", err)
	}
}

func TestQuoteServiceExpiredQuote(t *testing.T) {
	svc := NewService(nil)

	resp, err := svc.Quote(context.Background(), models.QuoteRequest{
		VehicleType:   "suv",
		DistanceMiles: 600,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	// Age the cached quote past its window.
	svc.quoteCacheLock.Lock()
	svc.quoteCache[resp.QuoteID].ExpiresAt = time.Now().Add(-time.Minute)
	svc.quoteCacheLock.Unlock()

	if _, err := svc.GetCachedQuote(resp.QuoteID); !errors.Is(err, models.ErrQuoteExpired) {
		t.Errorf("err = %v, want ErrQuoteExpired", err)
	}
}

func TestQuoteServiceComputesDistanceFromCoordinates(t *testing.T) {
	svc := NewService(nil)

	resp, err := svc.Quote(context.Background(), models.QuoteRequest{
		VehicleType: "sedan",
		PickupLat:   34.0522, PickupLng: -118.2437,
		DeliveryLat: 37.7749, DeliveryLng: -122.4194,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if resp.Breakdown.DistanceMiles == 0 {
		t.Error("DistanceMiles = 0, want derived from coordinates")
	}
	if resp.Breakdown.DistanceBand != string(BandShort) {
		t.Errorf("DistanceBand = %s, want short", resp.Breakdown.DistanceBand)
	}
}

func TestQuoteServiceFallsBackToDefaultRates(t *testing.T) {
	svc := NewService(&fakeRateRepo{err: errors.New("db down")})

	resp, err := svc.Quote(context.Background(), models.QuoteRequest{
		VehicleType:   "sedan",
		DistanceMiles: 800,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if resp.Total != 760.00 {
		t.Errorf("Total = %.2f, want 760.00 from default rates", resp.Total)
	}
}

func TestQuoteServiceUsesConfiguredRates(t *testing.T) {
	custom := RateTable{
		CategorySedan: {Short: 2.00, Mid: 1.00, Long: 0.70, Accident: 3.00},
	}
	svc := NewService(&fakeRateRepo{table: custom})

	resp, err := svc.Quote(context.Background(), models.QuoteRequest{
		VehicleType:   "sedan",
		DistanceMiles: 800,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if resp.Total != 800.00 {
		t.Errorf("Total = %.2f, want 800.00 from configured rates", resp.Total)
	}
}
