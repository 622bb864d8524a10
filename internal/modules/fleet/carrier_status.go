// Package fleet provides functionality for managing carrier trucks, their
// assignments, and shipment tracking.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"auto-shipping/internal/models"
	"auto-shipping/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// RepositoryInterface declares database operations for carrier records.
type RepositoryInterface interface {
	// FindCarrierByID returns a carrier by its UUID.
	FindCarrierByID(ctx context.Context, id string) (*models.Carrier, error)
	// UpdateCarrier updates the carrier status and position.
	UpdateCarrier(ctx context.Context, carrier *models.Carrier) error
	// ListCarriers returns all carriers in the fleet.
	ListCarriers(ctx context.Context) ([]*models.Carrier, error)
}

// Repository implements RepositoryInterface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository instance.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// FindCarrierByID fetches a single carrier. Returns models.ErrNotFound if none exist.
func (r *Repository) FindCarrierByID(ctx context.Context, id string) (*models.Carrier, error) {
	query := `
        SELECT id, name, truck_type, status,
               COALESCE(ST_Y(current_location::geometry), 0) AS lat,
               COALESCE(ST_X(current_location::geometry), 0) AS lon,
               vehicle_slots, created_at, updated_at
        FROM carriers WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	carrier := &models.Carrier{}
	err := row.Scan(&carrier.ID, &carrier.Name, &carrier.TruckType, &carrier.Status,
		&carrier.Latitude, &carrier.Longitude, &carrier.VehicleSlots, &carrier.CreatedAt, &carrier.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindCarrierByID: %w", err)
	}
	return carrier, nil
}

// UpdateCarrier updates status and position for a carrier.
func (r *Repository) UpdateCarrier(ctx context.Context, carrier *models.Carrier) error {
	query := `
        UPDATE carriers
        SET status = $2,
            current_location = ST_SetSRID(ST_MakePoint($3, $4), 4326),
            updated_at = now()
        WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, carrier.ID, carrier.Status, carrier.Longitude, carrier.Latitude)
	if err != nil {
		return fmt.Errorf("repository.UpdateCarrier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListCarriers retrieves all carriers in the database.
func (r *Repository) ListCarriers(ctx context.Context) ([]*models.Carrier, error) {
	query := `
        SELECT id, name, truck_type, status,
               COALESCE(ST_Y(current_location::geometry), 0) AS lat,
               COALESCE(ST_X(current_location::geometry), 0) AS lon,
               vehicle_slots, created_at, updated_at
        FROM carriers ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCarriers: %w", err)
	}
	defer rows.Close()

	var carriers []*models.Carrier
	for rows.Next() {
		carrier := &models.Carrier{}
		if err := rows.Scan(&carrier.ID, &carrier.Name, &carrier.TruckType, &carrier.Status,
			&carrier.Latitude, &carrier.Longitude, &carrier.VehicleSlots, &carrier.CreatedAt, &carrier.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListCarriers scan: %w", err)
		}
		carriers = append(carriers, carrier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListCarriers rows: %w", err)
	}
	return carriers, nil
}

// ServiceInterface describes business logic for carrier status management.
type ServiceInterface interface {
	// SetStatus updates a carrier's status and position.
	SetStatus(ctx context.Context, carrierID string, req models.CarrierStatusUpdateRequest) error
	// ListCarriers lists all registered carriers.
	ListCarriers(ctx context.Context) ([]*models.Carrier, error)
}

// Service implements ServiceInterface.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a service with the given repository.
func NewService(repo RepositoryInterface) ServiceInterface {
	return &Service{repo: repo}
}

// SetStatus validates and persists a carrier status update.
func (s *Service) SetStatus(ctx context.Context, carrierID string, req models.CarrierStatusUpdateRequest) error {
	carrier, err := s.repo.FindCarrierByID(ctx, carrierID)
	if err != nil {
		return err
	}

	carrier.Status = req.Status
	carrier.Latitude = req.Latitude
	carrier.Longitude = req.Longitude
	return s.repo.UpdateCarrier(ctx, carrier)
}

// ListCarriers delegates to the repository to fetch all carriers.
func (s *Service) ListCarriers(ctx context.Context) ([]*models.Carrier, error) {
	return s.repo.ListCarriers(ctx)
}

// Handler exposes HTTP endpoints for fleet management.
type Handler struct {
	svc         ServiceInterface
	trackingSvc TrackingServiceInterface
}

// NewHandler constructs a Handler with the provided services.
func NewHandler(svc ServiceInterface, trackingSvc TrackingServiceInterface) *Handler {
	return &Handler{svc: svc, trackingSvc: trackingSvc}
}

// GetFleet returns the entire fleet with their current status.
func (h *Handler) GetFleet(c echo.Context) error {
	carriers, err := h.svc.ListCarriers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to list carriers"})
	}
	return c.JSON(http.StatusOK, carriers)
}

// SetCarrierStatus handles PUT /admin/fleet/:carrierId/status requests.
func (h *Handler) SetCarrierStatus(c echo.Context) error {
	carrierID := c.Param("carrierId")
	var req models.CarrierStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid request body"})
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	}
	if err := h.svc.SetStatus(c.Request().Context(), carrierID, req); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "carrier not found"})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to update carrier"})
	}
	return c.NoContent(http.StatusNoContent)
}
