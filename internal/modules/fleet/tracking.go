package fleet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auto-shipping/internal/models"
	"auto-shipping/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// ------------------- Repository Layer -------------------

// TrackingRepositoryInterface declares database operations for tracking events.
type TrackingRepositoryInterface interface {
	// CreateTrackingEvent stores a new tracking event record.
	CreateTrackingEvent(ctx context.Context, event *models.TrackingEvent) error
	// ListTrackingEvents returns events for the given shipment sorted by time.
	ListTrackingEvents(ctx context.Context, shipmentID int) ([]*models.TrackingEvent, error)
}

// TrackingRepository is a PostgreSQL implementation of TrackingRepositoryInterface.
type TrackingRepository struct {
	db *pgxpool.Pool
}

// NewTrackingRepository creates a new repository instance.
func NewTrackingRepository(db *pgxpool.Pool) TrackingRepositoryInterface {
	return &TrackingRepository{db: db}
}

// CreateTrackingEvent inserts a new tracking event into the database.
func (r *TrackingRepository) CreateTrackingEvent(ctx context.Context, event *models.TrackingEvent) error {
	query := `
        INSERT INTO tracking_events (shipment_id, carrier_id, location)
        VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326))
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, event.ShipmentID, event.CarrierID, event.Longitude, event.Latitude).
		Scan(&event.ID, &event.CreatedAt)
}

// ListTrackingEvents retrieves all events for a shipment ordered by creation time.
func (r *TrackingRepository) ListTrackingEvents(ctx context.Context, shipmentID int) ([]*models.TrackingEvent, error) {
	query := `
        SELECT id, shipment_id, carrier_id,
               COALESCE(ST_Y(location::geometry), 0) AS lat,
               COALESCE(ST_X(location::geometry), 0) AS lon,
               created_at
        FROM tracking_events
        WHERE shipment_id = $1
        ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListTrackingEvents: %w", err)
	}
	defer rows.Close()

	var events []*models.TrackingEvent
	for rows.Next() {
		ev := &models.TrackingEvent{}
		if err := rows.Scan(&ev.ID, &ev.ShipmentID, &ev.CarrierID, &ev.Latitude, &ev.Longitude, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListTrackingEvents scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListTrackingEvents rows: %w", err)
	}
	return events, nil
}

// ------------------- Service Layer -------------------

// TrackingServiceInterface defines business logic for tracking events.
type TrackingServiceInterface interface {
	// ReportTracking records a new tracking event.
	ReportTracking(ctx context.Context, shipmentID int, req models.TrackingEventRequest) error
	// GetTracking returns all tracking events for a shipment.
	GetTracking(ctx context.Context, shipmentID int) ([]*models.TrackingEvent, error)
}

// TrackingService implements TrackingServiceInterface.
type TrackingService struct {
	repo TrackingRepositoryInterface
}

// NewTrackingService creates a new service instance.
func NewTrackingService(repo TrackingRepositoryInterface) *TrackingService {
	return &TrackingService{repo: repo}
}

// ReportTracking validates input and persists the tracking event.
func (s *TrackingService) ReportTracking(ctx context.Context, shipmentID int, req models.TrackingEventRequest) error {
	event := &models.TrackingEvent{
		ShipmentID: shipmentID,
		CarrierID:  req.CarrierID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	return s.repo.CreateTrackingEvent(ctx, event)
}

// GetTracking fetches all tracking events for the shipment.
func (s *TrackingService) GetTracking(ctx context.Context, shipmentID int) ([]*models.TrackingEvent, error) {
	return s.repo.ListTrackingEvents(ctx, shipmentID)
}

// ------------------- HTTP Handlers -------------------

// ReportTracking handles POST /driver/shipments/:shipmentId/tracking requests.
func (h *Handler) ReportTracking(c echo.Context) error {
	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid shipment ID"})
	}
	var req models.TrackingEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid request body"})
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	}

	if err := h.trackingSvc.ReportTracking(c.Request().Context(), shipmentID, req); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to record tracking"})
	}

	return c.NoContent(http.StatusCreated)
}

// GetTracking handles GET /shipments/:shipmentId/tracking requests.
func (h *Handler) GetTracking(c echo.Context) error {
	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid shipment ID"})
	}
	events, err := h.trackingSvc.GetTracking(c.Request().Context(), shipmentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to get tracking"})
	}
	return c.JSON(http.StatusOK, events)
}
