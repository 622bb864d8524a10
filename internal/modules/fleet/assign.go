package fleet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auto-shipping/internal/models"
	"auto-shipping/internal/modules/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// ------------------- Repository Layer -------------------

// AssignRepositoryInterface declares the database methods needed for
// assigning shipments to available carriers.
type AssignRepositoryInterface interface {
	// GetShipmentPickup fetches the pickup coordinates and vehicle count
	// for the given shipment.
	GetShipmentPickup(ctx context.Context, shipmentID int) (lat, lng float64, vehicleCount int, err error)
	// ListIdleCarriers returns all carriers currently marked as IDLE.
	ListIdleCarriers(ctx context.Context) ([]*models.Carrier, error)
	// AssignShipment updates the shipment with the chosen carrier and status.
	AssignShipment(ctx context.Context, shipmentID int, carrierID string) error
	// UpdateCarrierStatus sets the carrier's status value.
	UpdateCarrierStatus(ctx context.Context, carrierID, status string) error
}

// AssignRepository is a PostgreSQL implementation of AssignRepositoryInterface.
type AssignRepository struct {
	db *pgxpool.Pool
}

// NewAssignRepository creates a new repository instance.
func NewAssignRepository(db *pgxpool.Pool) AssignRepositoryInterface {
	return &AssignRepository{db: db}
}

// GetShipmentPickup returns the pickup point of the specified shipment.
func (r *AssignRepository) GetShipmentPickup(ctx context.Context, shipmentID int) (float64, float64, int, error) {
	query := `
        SELECT pickup_lat, pickup_lng, vehicle_count
        FROM shipments
        WHERE id = $1`
	var lat, lng float64
	var count int
	err := r.db.QueryRow(ctx, query, shipmentID).Scan(&lat, &lng, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, 0, models.ErrNotFound
		}
		return 0, 0, 0, fmt.Errorf("repository.GetShipmentPickup: %w", err)
	}
	return lat, lng, count, nil
}

// ListIdleCarriers retrieves all carriers with status 'IDLE'.
func (r *AssignRepository) ListIdleCarriers(ctx context.Context) ([]*models.Carrier, error) {
	query := `
        SELECT id, name, truck_type, status,
               COALESCE(ST_Y(current_location::geometry), 0) AS lat,
               COALESCE(ST_X(current_location::geometry), 0) AS lon,
               vehicle_slots, created_at, updated_at
        FROM carriers
        WHERE status = 'IDLE'`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListIdleCarriers: %w", err)
	}
	defer rows.Close()

	var carriers []*models.Carrier
	for rows.Next() {
		carrier := &models.Carrier{}
		if err := rows.Scan(&carrier.ID, &carrier.Name, &carrier.TruckType, &carrier.Status,
			&carrier.Latitude, &carrier.Longitude, &carrier.VehicleSlots, &carrier.CreatedAt, &carrier.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListIdleCarriers scan: %w", err)
		}
		carriers = append(carriers, carrier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListIdleCarriers rows: %w", err)
	}
	return carriers, nil
}

// AssignShipment updates a shipment to use the given carrier and sets status to assigned.
func (r *AssignRepository) AssignShipment(ctx context.Context, shipmentID int, carrierID string) error {
	query := `
        UPDATE shipments
        SET carrier_id = $2,
            status = 'assigned',
            updated_at = now()
        WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, shipmentID, carrierID)
	if err != nil {
		return fmt.Errorf("repository.AssignShipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateCarrierStatus changes the status of a carrier.
func (r *AssignRepository) UpdateCarrierStatus(ctx context.Context, carrierID, status string) error {
	query := `
        UPDATE carriers
        SET status = $2,
            updated_at = now()
        WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, carrierID, status)
	if err != nil {
		return fmt.Errorf("repository.UpdateCarrierStatus: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ------------------- Service Layer -------------------

// AssignServiceInterface defines business logic for assigning shipments.
type AssignServiceInterface interface {
	// AssignShipment chooses a carrier for the shipment and updates both records.
	AssignShipment(ctx context.Context, shipmentID int) (*models.Carrier, error)
}

// AssignService implements AssignServiceInterface.
type AssignService struct {
	repo AssignRepositoryInterface
}

// NewAssignService constructs a service with the provided repository.
func NewAssignService(repo AssignRepositoryInterface) *AssignService {
	return &AssignService{repo: repo}
}

// AssignShipment selects the closest idle carrier with enough trailer
// slots for the shipment's vehicle count, using the same road-distance
// estimate the quote engine uses.
func (s *AssignService) AssignShipment(ctx context.Context, shipmentID int) (*models.Carrier, error) {
	pickupLat, pickupLng, vehicleCount, err := s.repo.GetShipmentPickup(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	carriers, err := s.repo.ListIdleCarriers(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.Carrier
	bestMiles := 0.0
	for _, carrier := range carriers {
		if carrier.VehicleSlots < vehicleCount {
			continue
		}
		miles := pricing.RoadMiles(carrier.Latitude, carrier.Longitude, pickupLat, pickupLng)
		if best == nil || miles < bestMiles {
			best = carrier
			bestMiles = miles
		}
	}
	if best == nil {
		return nil, models.ErrNoCarriersAvailable
	}

	if err := s.repo.AssignShipment(ctx, shipmentID, best.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCarrierStatus(ctx, best.ID, models.CarrierStatusInTransit); err != nil {
		return nil, err
	}

	return best, nil
}

// ------------------- HTTP Handler -------------------

// AssignHandler exposes an endpoint for (re)assigning shipments to carriers.
type AssignHandler struct {
	svc AssignServiceInterface
}

// NewAssignHandler creates a new handler with the given service.
func NewAssignHandler(svc AssignServiceInterface) *AssignHandler {
	return &AssignHandler{svc: svc}
}

// ReassignShipment handles POST /admin/shipments/:shipmentId/reassign requests.
func (h *AssignHandler) ReassignShipment(c echo.Context) error {
	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid shipment ID"})
	}

	carrier, err := h.svc.AssignShipment(c.Request().Context(), shipmentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "shipment or carrier not found"})
		}
		if errors.Is(err, models.ErrNoCarriersAvailable) {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to assign shipment"})
	}

	return c.JSON(http.StatusOK, carrier)
}
