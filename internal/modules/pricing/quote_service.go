package pricing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"auto-shipping/internal/models"

	"github.com/google/uuid"
)

// quoteTTL is how long a quoted price stays bookable. After this window
// the client has to request a fresh quote.
const quoteTTL = 15 * time.Minute

// ServiceInterface defines the contract for the pricing service.
type ServiceInterface interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error)
	// GetCachedQuote returns a previously issued quote by ID, or
	// models.ErrQuoteExpired when it is unknown or past its window.
	GetCachedQuote(quoteID string) (*models.Quote, error)
	ListRates(ctx context.Context) ([]*models.PricingRate, error)
	UpdateRate(ctx context.Context, vehicleType string, req models.UpdatePricingRateRequest) (*models.PricingRate, error)
}

// Service runs the quote engine against the active rate table and keeps
// a short-lived cache of issued quotes so shipments can be booked at the
// quoted price.
type Service struct {
	rateRepo RateRepositoryInterface

	quoteCache     map[string]*models.Quote
	quoteCacheLock sync.RWMutex
}

// NewService creates a new pricing service.
func NewService(rateRepo RateRepositoryInterface) *Service {
	return &Service{
		rateRepo:   rateRepo,
		quoteCache: make(map[string]*models.Quote),
	}
}

// loadRateTable fetches the admin-configured table, falling back to the
// built-in defaults when nothing is configured or the database is
// unreachable. Quoting must keep working even if pricing config reads
// fail, so the error is logged rather than propagated.
func (s *Service) loadRateTable(ctx context.Context) RateTable {
	if s.rateRepo == nil {
		return DefaultRateTable()
	}
	table, err := s.rateRepo.GetRateTable(ctx)
	if err != nil {
		log.Printf("pricing: falling back to default rates: %v", err)
		return DefaultRateTable()
	}
	if len(table) == 0 {
		return DefaultRateTable()
	}
	return table
}

// Quote prices a shipment and caches the result under a fresh quote ID.
func (s *Service) Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error) {
	distance := req.DistanceMiles
	if distance == 0 && hasCoordinates(req) {
		distance = RoadMiles(req.PickupLat, req.PickupLng, req.DeliveryLat, req.DeliveryLng)
	}

	input := QuoteInput{
		VehicleType:        req.VehicleType,
		DistanceMiles:      distance,
		IsAccidentRecovery: req.IsAccidentRecovery,
		VehicleCount:       req.VehicleCount,
		SurgeMultiplier:    req.SurgeMultiplier,
		PickupDate:         req.PickupDate,
		DeliveryDate:       req.DeliveryDate,
	}
	if req.FuelPricePerGallon > 0 {
		fuel := req.FuelPricePerGallon
		input.FuelPricePerGallon = &fuel
	}

	engine := NewEngine(s.loadRateTable(ctx))
	breakdown := engine.Quote(input)

	pickup := ParseShipmentDate(req.PickupDate)
	delivery := ParseShipmentDate(req.DeliveryDate)

	now := time.Now()
	quote := &models.Quote{
		ID:            uuid.New().String(),
		VehicleType:   string(breakdown.VehicleCategory),
		VehicleCount:  input.VehicleCount,
		DistanceMiles: breakdown.DistanceMiles,
		DeliveryType:  string(breakdown.DeliveryType),
		PickupDate:    pickup,
		DeliveryDate:  delivery,
		Total:         breakdown.Total,
		Breakdown:     toBreakdownModel(breakdown),
		CreatedAt:     now,
		ExpiresAt:     now.Add(quoteTTL),
	}
	if quote.VehicleCount < 1 {
		quote.VehicleCount = 1
	}

	s.quoteCacheLock.Lock()
	s.quoteCache[quote.ID] = quote
	s.pruneExpiredLocked(now)
	s.quoteCacheLock.Unlock()

	return &models.QuoteResponse{
		QuoteID:   quote.ID,
		Total:     quote.Total,
		Breakdown: quote.Breakdown,
		ExpiresAt: quote.ExpiresAt,
	}, nil
}

// GetCachedQuote looks up an issued quote for shipment booking.
func (s *Service) GetCachedQuote(quoteID string) (*models.Quote, error) {
	s.quoteCacheLock.RLock()
	quote, ok := s.quoteCache[quoteID]
	s.quoteCacheLock.RUnlock()

	if !ok || time.Now().After(quote.ExpiresAt) {
		return nil, models.ErrQuoteExpired
	}
	return quote, nil
}

// ListRates returns the configured rate rows for the admin dashboard.
// When nothing is configured yet, the defaults are materialized so the
// dashboard always shows the effective table.
func (s *Service) ListRates(ctx context.Context) ([]*models.PricingRate, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListRates: %w", err)
	}
	if len(rates) > 0 {
		return rates, nil
	}
	for category, rate := range DefaultRateTable() {
		rates = append(rates, &models.PricingRate{
			VehicleType:  string(category),
			ShortRate:    rate.Short,
			MidRate:      rate.Mid,
			LongRate:     rate.Long,
			AccidentRate: rate.Accident,
		})
	}
	return rates, nil
}

// UpdateRate stores new rates for a vehicle category. The category is
// normalized first so "pickup" updates the truck row.
func (s *Service) UpdateRate(ctx context.Context, vehicleType string, req models.UpdatePricingRateRequest) (*models.PricingRate, error) {
	category := NormalizeVehicleType(vehicleType)
	rate, err := s.rateRepo.UpsertRate(ctx, string(category), req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateRate: %w", err)
	}
	return rate, nil
}

// pruneExpiredLocked drops stale cache entries. Caller holds the write lock.
func (s *Service) pruneExpiredLocked(now time.Time) {
	for id, quote := range s.quoteCache {
		if now.After(quote.ExpiresAt) {
			delete(s.quoteCache, id)
		}
	}
}

func hasCoordinates(req models.QuoteRequest) bool {
	return (req.PickupLat != 0 || req.PickupLng != 0) &&
		(req.DeliveryLat != 0 || req.DeliveryLng != 0)
}

func toBreakdownModel(b Breakdown) models.QuoteBreakdown {
	return models.QuoteBreakdown{
		VehicleType:            string(b.VehicleCategory),
		DistanceBand:           string(b.DistanceBand),
		DistanceMiles:          b.DistanceMiles,
		BaseRatePerMile:        b.BaseRatePerMile,
		RawBasePrice:           b.RawBasePrice,
		BulkDiscountPercent:    b.BulkDiscountPercent,
		BulkDiscountAmount:     b.BulkDiscountAmount,
		SurgeMultiplier:        b.SurgeMultiplier,
		DeliveryType:           string(b.DeliveryType),
		DeliveryTypeMultiplier: b.DeliveryTypeMultiplier,
		FuelPricePerGallon:     b.FuelPricePerGallon,
		FuelAdjustmentPercent:  b.FuelAdjustmentPercent,
		MinimumApplied:         b.MinimumApplied,
		Total:                  b.Total,
	}
}
