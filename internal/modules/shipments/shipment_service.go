package shipments

import (
	"context"
	"fmt"
	"log"

	"auto-shipping/internal/models"
	emailSvc "auto-shipping/pkg/email"
)

// QuoteProviderInterface is the slice of the pricing service the
// shipment flow needs: looking up a previously issued quote by ID.
type QuoteProviderInterface interface {
	GetCachedQuote(quoteID string) (*models.Quote, error)
}

// UserDirectoryInterface is the slice of the user service the shipment
// flow needs: resolving the booking user's email and display name.
type UserDirectoryInterface interface {
	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
}

// ServiceInterface defines the contract for the shipment service.
type ServiceInterface interface {
	CreateShipment(ctx context.Context, userID string, req models.CreateShipmentRequest) (*models.Shipment, error)
	GetShipmentDetails(ctx context.Context, shipmentID int, userID string, role string) (*models.Shipment, error)
	ListUserShipments(ctx context.Context, userID string, page, limit int) ([]*models.Shipment, int, error)
	ListAllShipments(ctx context.Context, page, limit int) ([]*models.Shipment, int, error)
	AdminUpdateShipment(ctx context.Context, shipmentID int, req models.AdminUpdateShipmentRequest) (*models.Shipment, error)
	CancelShipment(ctx context.Context, shipmentID int, userID string) error
	SubmitFeedback(ctx context.Context, userID string, shipmentID int, req models.FeedbackRequest) error
}

// Service implements the shipment business logic.
type Service struct {
	repo            RepositoryInterface
	quotes          QuoteProviderInterface
	users           UserDirectoryInterface
	emailer         emailSvc.ServiceInterface
	templateManager *emailSvc.TemplateManager
}

// NewService creates a new shipment service. The emailer and template
// manager may be nil, in which case booking confirmations are skipped.
func NewService(
	repo RepositoryInterface,
	quotes QuoteProviderInterface,
	users UserDirectoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
) *Service {
	return &Service{
		repo:            repo,
		quotes:          quotes,
		users:           users,
		emailer:         emailer,
		templateManager: tm,
	}
}

// CreateShipment books a shipment against a previously issued quote.
// The two-step flow guarantees the price shown to the client is the
// price stored on the shipment.
func (s *Service) CreateShipment(ctx context.Context, userID string, req models.CreateShipmentRequest) (*models.Shipment, error) {
	quote, err := s.quotes.GetCachedQuote(req.QuoteID)
	if err != nil {
		return nil, err // models.ErrQuoteExpired
	}

	shipment, err := s.repo.Create(ctx, userID, quote, req)
	if err != nil {
		return nil, fmt.Errorf("service.CreateShipment: %w", err)
	}

	s.sendBookingConfirmation(shipment)

	return shipment, nil
}

// sendBookingConfirmation emails the client a summary of the booking.
// Failures are logged only; the shipment is already committed.
func (s *Service) sendBookingConfirmation(shipment *models.Shipment) {
	if s.emailer == nil || s.templateManager == nil || s.users == nil {
		return
	}

	go func() {
		ctx := context.Background()
		user, err := s.users.GetUserProfile(ctx, shipment.UserID)
		if err != nil {
			log.Printf("Failed to look up user %s for booking confirmation: %v", shipment.UserID, err)
			return
		}

		htmlContent, err := s.templateManager.GenerateBookingConfirmationEmailHTML(emailSvc.BookingData{
			Name:            user.Nickname,
			ShipmentID:      shipment.ID,
			VehicleType:     shipment.VehicleType,
			PickupAddress:   shipment.PickupAddress,
			DeliveryAddress: shipment.DeliveryAddress,
			Total:           fmt.Sprintf("%.2f", shipment.QuotedTotal),
		})
		if err != nil {
			log.Printf("Failed to generate booking confirmation HTML: %v", err)
			return
		}

		subject := fmt.Sprintf("Shipment #%d Booked", shipment.ID)
		plainText := fmt.Sprintf("Your shipment #%d from %s to %s is booked at $%.2f.",
			shipment.ID, shipment.PickupAddress, shipment.DeliveryAddress, shipment.QuotedTotal)

		if err := s.emailer.SendEmail(ctx, user.Email, subject, plainText, htmlContent); err != nil {
			log.Printf("Failed to send booking confirmation to %s: %v", user.Email, err)
		}
	}()
}

// GetShipmentDetails retrieves a single shipment's details. Admins can
// see any shipment; everyone else only their own.
func (s *Service) GetShipmentDetails(ctx context.Context, shipmentID int, userID string, role string) (*models.Shipment, error) {
	shipment, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("service.GetShipmentDetails: %w", err)
	}

	if role != models.RoleAdmin && shipment.UserID != userID {
		return nil, models.ErrNotFound // Return NotFound to avoid leaking information
	}

	return shipment, nil
}

// ListUserShipments retrieves all shipments for a specific user.
func (s *Service) ListUserShipments(ctx context.Context, userID string, page, limit int) ([]*models.Shipment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	shipments, total, err := s.repo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListUserShipments: %w", err)
	}
	return shipments, total, nil
}

// ListAllShipments lists every shipment in the system (admin).
func (s *Service) ListAllShipments(ctx context.Context, page, limit int) ([]*models.Shipment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListAll(ctx, page, limit)
}

// CancelShipment cancels a shipment for a user. Only pending shipments
// can be cancelled; once a carrier is assigned the client has to go
// through support.
func (s *Service) CancelShipment(ctx context.Context, shipmentID int, userID string) error {
	shipment, err := s.GetShipmentDetails(ctx, shipmentID, userID, models.RoleClient)
	if err != nil {
		return err
	}

	if shipment.Status != models.ShipmentStatusPending {
		return models.ErrShipmentCannotBeCancelled
	}

	return s.repo.UpdateStatusForUser(ctx, shipmentID, userID, models.ShipmentStatusCancelled)
}

// AdminUpdateShipment updates a shipment's status or carrier assignment.
func (s *Service) AdminUpdateShipment(ctx context.Context, shipmentID int, req models.AdminUpdateShipmentRequest) (*models.Shipment, error) {
	shipment, err := s.repo.Update(ctx, shipmentID, req)
	if err != nil {
		return nil, fmt.Errorf("service.AdminUpdateShipment: %w", err)
	}
	return shipment, nil
}

// SubmitFeedback allows a client to rate a delivered shipment.
func (s *Service) SubmitFeedback(ctx context.Context, userID string, shipmentID int, req models.FeedbackRequest) error {
	shipment, err := s.GetShipmentDetails(ctx, shipmentID, userID, models.RoleClient)
	if err != nil {
		return err
	}

	if shipment.Status != models.ShipmentStatusDelivered {
		return models.ErrCannotSubmitFeedback
	}

	if shipment.FeedbackRating.Valid {
		return models.ErrFeedbackAlreadySubmitted
	}

	if err := s.repo.AddFeedback(ctx, shipmentID, req.Rating, req.Comment); err != nil {
		return fmt.Errorf("service.SubmitFeedback: %w", err)
	}

	return nil
}
