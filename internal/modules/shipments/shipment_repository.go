package shipments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auto-shipping/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the shipment repository.
type RepositoryInterface interface {
	Create(ctx context.Context, userID string, quote *models.Quote, req models.CreateShipmentRequest) (*models.Shipment, error)
	FindByID(ctx context.Context, shipmentID int) (*models.Shipment, error)
	ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Shipment, int, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Shipment, int, error)
	Update(ctx context.Context, shipmentID int, req models.AdminUpdateShipmentRequest) (*models.Shipment, error)
	UpdateStatusForUser(ctx context.Context, shipmentID int, userID string, status string) error
	AddFeedback(ctx context.Context, shipmentID int, rating int, comment string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new shipment repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const shipmentColumns = `id, user_id, carrier_id, status, vehicle_type, vehicle_count,
		pickup_address, delivery_address, pickup_lat, pickup_lng, delivery_lat, delivery_lng,
		distance_miles, delivery_type, quoted_total, pickup_date, delivery_date,
		feedback_rating, feedback_comment, created_at, updated_at`

// Create inserts a new shipment priced by the given quote.
func (r *Repository) Create(ctx context.Context, userID string, quote *models.Quote, req models.CreateShipmentRequest) (*models.Shipment, error) {
	query := `
		INSERT INTO shipments (user_id, status, vehicle_type, vehicle_count,
			pickup_address, delivery_address, pickup_lat, pickup_lng, delivery_lat, delivery_lng,
			distance_miles, delivery_type, quoted_total, pickup_date, delivery_date)
		VALUES ($1, 'pending', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + shipmentColumns

	row := r.db.QueryRow(ctx, query,
		userID, quote.VehicleType, quote.VehicleCount,
		req.PickupAddress, req.DeliveryAddress,
		req.PickupLat, req.PickupLng, req.DeliveryLat, req.DeliveryLng,
		quote.DistanceMiles, quote.DeliveryType, quote.Total,
		nullableTime(quote.PickupDate), nullableTime(quote.DeliveryDate),
	)
	shipment, err := r.scanShipment(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateShipment: %w", err)
	}
	return shipment, nil
}

// scanShipment is a helper to scan a row into a Shipment model.
func (r *Repository) scanShipment(row pgx.Row) (*models.Shipment, error) {
	var s models.Shipment
	err := row.Scan(
		&s.ID, &s.UserID, &s.CarrierID, &s.Status, &s.VehicleType, &s.VehicleCount,
		&s.PickupAddress, &s.DeliveryAddress, &s.PickupLat, &s.PickupLng, &s.DeliveryLat, &s.DeliveryLng,
		&s.DistanceMiles, &s.DeliveryType, &s.QuotedTotal, &s.PickupDate, &s.DeliveryDate,
		&s.FeedbackRating, &s.FeedbackComment, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan shipment: %w", err)
	}
	return &s, nil
}

// FindByID retrieves a single shipment by its ID.
func (r *Repository) FindByID(ctx context.Context, shipmentID int) (*models.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	row := r.db.QueryRow(ctx, query, shipmentID)
	shipment, err := r.scanShipment(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return shipment, nil
}

// ListByUserID retrieves all shipments for a specific user with pagination.
func (r *Repository) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Shipment, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + shipmentColumns + `
		FROM shipments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Query: %w", err)
	}
	defer rows.Close()

	var shipments []*models.Shipment
	for rows.Next() {
		shipment, err := r.scanShipment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListByUserID.Scan: %w", err)
		}
		shipments = append(shipments, shipment)
	}

	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM shipments WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Count: %w", err)
	}

	return shipments, total, nil
}

// ListAll retrieves all shipments in the system with pagination (for admin use).
func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Shipment, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + shipmentColumns + `
		FROM shipments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	var shipments []*models.Shipment
	for rows.Next() {
		shipment, err := r.scanShipment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListAll.Scan: %w", err)
		}
		shipments = append(shipments, shipment)
	}

	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM shipments").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Count: %w", err)
	}

	return shipments, total, nil
}

// Update modifies an existing shipment's details (for admin use).
func (r *Repository) Update(ctx context.Context, shipmentID int, req models.AdminUpdateShipmentRequest) (*models.Shipment, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	if req.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *req.Status)
		argIdx++
	}
	if req.CarrierID != nil {
		setClauses = append(setClauses, fmt.Sprintf("carrier_id = $%d", argIdx))
		args = append(args, *req.CarrierID)
		argIdx++
	}

	if len(setClauses) == 0 {
		// No fields to update, return the current shipment data
		return r.FindByID(ctx, shipmentID)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, shipmentID) // For the WHERE clause

	query := fmt.Sprintf(`
		UPDATE shipments SET %s
		WHERE id = $%d
		RETURNING `+shipmentColumns,
		strings.Join(setClauses, ", "), argIdx)

	row := r.db.QueryRow(ctx, query, args...)
	shipment, err := r.scanShipment(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}

	return shipment, nil
}

// UpdateStatusForUser updates the status of a shipment owned by a
// specific user. Used for client-initiated cancellation.
func (r *Repository) UpdateStatusForUser(ctx context.Context, shipmentID int, userID string, status string) error {
	query := `
		UPDATE shipments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, status, shipmentID, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdateStatusForUser: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound // Shipment not found or not owned by the user
	}

	return nil
}

// AddFeedback adds a rating and comment to a shipment.
func (r *Repository) AddFeedback(ctx context.Context, shipmentID int, rating int, comment string) error {
	query := `
		UPDATE shipments
		SET feedback_rating = $1, feedback_comment = $2, updated_at = NOW()
		WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, rating, comment, shipmentID)
	if err != nil {
		return fmt.Errorf("repository.AddFeedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
