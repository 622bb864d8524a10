package shipments

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"auto-shipping/internal/models"
)

// fakeRepo is an in-memory shipment store for service tests.
type fakeRepo struct {
	shipments map[int]*models.Shipment
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shipments: make(map[int]*models.Shipment), nextID: 1}
}

func (f *fakeRepo) Create(ctx context.Context, userID string, quote *models.Quote, req models.CreateShipmentRequest) (*models.Shipment, error) {
	s := &models.Shipment{
		ID:              f.nextID,
		UserID:          userID,
		Status:          models.ShipmentStatusPending,
		VehicleType:     quote.VehicleType,
		VehicleCount:    quote.VehicleCount,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		DistanceMiles:   quote.DistanceMiles,
		DeliveryType:    quote.DeliveryType,
		QuotedTotal:     quote.Total,
	}
	f.shipments[s.ID] = s
	f.nextID++
	return s, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, shipmentID int) (*models.Shipment, error) {
	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Shipment, int, error) {
	var out []*models.Shipment
	for _, s := range f.shipments {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListAll(ctx context.Context, page, limit int) ([]*models.Shipment, int, error) {
	var out []*models.Shipment
	for _, s := range f.shipments {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, shipmentID int, req models.AdminUpdateShipmentRequest) (*models.Shipment, error) {
	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Status != nil {
		s.Status = *req.Status
	}
	if req.CarrierID != nil {
		s.CarrierID = sql.NullString{String: *req.CarrierID, Valid: true}
	}
	return s, nil
}

func (f *fakeRepo) UpdateStatusForUser(ctx context.Context, shipmentID int, userID string, status string) error {
	s, ok := f.shipments[shipmentID]
	if !ok || s.UserID != userID {
		return models.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeRepo) AddFeedback(ctx context.Context, shipmentID int, rating int, comment string) error {
	s, ok := f.shipments[shipmentID]
	if !ok {
		return models.ErrNotFound
	}
	s.FeedbackRating = sql.NullInt32{Int32: int32(rating), Valid: true}
	s.FeedbackComment = sql.NullString{String: comment, Valid: true}
	return nil
}

// fakeQuotes serves a single cached quote.
type fakeQuotes struct {
	quote *models.Quote
}

func (f *fakeQuotes) GetCachedQuote(quoteID string) (*models.Quote, error) {
	if f.quote == nil || f.quote.ID != quoteID {
		return nil, models.ErrQuoteExpired
	}
	return f.quote, nil
}

func newTestService(repo RepositoryInterface, quotes QuoteProviderInterface) *Service {
	return NewService(repo, quotes, nil, nil, nil)
}

func TestCreateShipmentFromQuote(t *testing.T) {
	repo := newFakeRepo()
	quote := &models.Quote{
		ID:            "q-1",
		VehicleType:   "sedan",
		VehicleCount:  1,
		DistanceMiles: 800,
		DeliveryType:  "standard",
		Total:         760.00,
	}
	svc := newTestService(repo, &fakeQuotes{quote: quote})

	shipment, err := svc.CreateShipment(context.Background(), "user-1", models.CreateShipmentRequest{
		QuoteID:         "q-1",
		PickupAddress:   "123 Pickup St, Los Angeles, CA",
		DeliveryAddress: "456 Delivery Ave, San Francisco, CA",
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	if shipment.Status != models.ShipmentStatusPending {
		t.Errorf("Status = %s, want pending", shipment.Status)
	}
	if shipment.QuotedTotal != 760.00 {
		t.Errorf("QuotedTotal = %.2f, want 760.00", shipment.QuotedTotal)
	}
	if shipment.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", shipment.UserID)
	}
}

func TestCreateShipmentWithExpiredQuote(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeQuotes{})

	_, err := svc.CreateShipment(context.Background(), "user-1", models.CreateShipmentRequest{
		QuoteID:         "gone",
		PickupAddress:   "123 Pickup St",
		DeliveryAddress: "456 Delivery Ave",
	})
	if !errors.Is(err, models.ErrQuoteExpired) {
		t.Errorf("err = %v, want ErrQuoteExpired", err)
	}
}

func TestGetShipmentDetailsOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.shipments[1] = &models.Shipment{ID: 1, UserID: "owner", Status: models.ShipmentStatusPending}
	svc := newTestService(repo, &fakeQuotes{})

	if _, err := svc.GetShipmentDetails(context.Background(), 1, "owner", models.RoleClient); err != nil {
		t.Errorf("owner lookup: %v", err)
	}
	if _, err := svc.GetShipmentDetails(context.Background(), 1, "stranger", models.RoleClient); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("stranger lookup err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetShipmentDetails(context.Background(), 1, "someone-else", models.RoleAdmin); err != nil {
		t.Errorf("admin lookup: %v", err)
	}
}

func TestCancelShipment(t *testing.T) {
	repo := newFakeRepo()
	repo.shipments[1] = &models.Shipment{ID: 1, UserID: "owner", Status: models.ShipmentStatusPending}
	repo.shipments[2] = &models.Shipment{ID: 2, UserID: "owner", Status: models.ShipmentStatusInTransit}
	svc := newTestService(repo, &fakeQuotes{})

	if err := svc.CancelShipment(context.Background(), 1, "owner"); err != nil {
		t.Errorf("cancel pending: %v", err)
	}
	if repo.shipments[1].Status != models.ShipmentStatusCancelled {
		t.Errorf("Status = %s, want cancelled", repo.shipments[1].Status)
	}

	if err := svc.CancelShipment(context.Background(), 2, "owner"); !errors.Is(err, models.ErrShipmentCannotBeCancelled) {
		t.Errorf("cancel in_transit err = %v, want ErrShipmentCannotBeCancelled", err)
	}
}

func TestSubmitFeedback(t *testing.T) {
	repo := newFakeRepo()
	repo.shipments[1] = &models.Shipment{ID: 1, UserID: "owner", Status: models.ShipmentStatusDelivered}
	repo.shipments[2] = &models.Shipment{ID: 2, UserID: "owner", Status: models.ShipmentStatusInTransit}
	svc := newTestService(repo, &fakeQuotes{})

	req := models.FeedbackRequest{Rating: 5, Comment: "great service"}

	if err := svc.SubmitFeedback(context.Background(), "owner", 1, req); err != nil {
		t.Errorf("feedback on delivered: %v", err)
	}
	if err := svc.SubmitFeedback(context.Background(), "owner", 1, req); !errors.Is(err, models.ErrFeedbackAlreadySubmitted) {
		t.Errorf("duplicate feedback err = %v, want ErrFeedbackAlreadySubmitted", err)
	}
	if err := svc.SubmitFeedback(context.Background(), "owner", 2, req); !errors.Is(err, models.ErrCannotSubmitFeedback) {
		t.Errorf("feedback on in_transit err = %v, want ErrCannotSubmitFeedback", err)
	}
}
