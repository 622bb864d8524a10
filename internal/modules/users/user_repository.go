package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auto-shipping/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines methods for interacting with user storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByNickname(ctx context.Context, nickname string) (*models.User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error)

	SetPasswordResetToken(ctx context.Context, userID string, token string, expiresAt time.Time) error
	UpdatePasswordAndClearResetToken(ctx context.Context, userID string, passwordHash string) error
	UpdateActivationToken(ctx context.Context, userID, newToken string, expiresAt time.Time) error

	CreateInactiveUser(ctx context.Context, user *models.User, passwordHash, activationToken string, expiresAt time.Time) (*models.User, error)
	ActivateUser(ctx context.Context, token string) (*models.User, error)
	CreateOAuthUser(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, userID string, updateData models.UserUpdateData) (*models.User, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.User, int, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, userID string, req models.AddAddressRequest) (*models.Address, error)
	UpdateAddress(ctx context.Context, addressID string, req models.UpdateAddressRequest) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	ClearDefaultAddress(ctx context.Context, userID string) error
	VerifyAddressOwner(ctx context.Context, userID, addressID string) error

	BeginTx(ctx context.Context) (pgx.Tx, error)
	WithTx(tx pgx.Tx) RepositoryInterface
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db   querier
	pool *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db, pool: db}
}

// BeginTx starts a database transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// WithTx returns a repository that runs its queries inside the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) RepositoryInterface {
	return &Repository{db: tx, pool: r.pool}
}

// OAuth accounts have no password hash and local accounts have no avatar,
// so both columns are coalesced.
const userColumns = `id, nickname, email, role, COALESCE(avatar_url, '') AS avatar_url, auth_provider, is_active, created_at, updated_at`

func (r *Repository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	// Also selects the password hash; needed by the login flow.
	user := &models.User{}
	query := `SELECT id, nickname, email, COALESCE(password_hash, '') AS password_hash, role, COALESCE(avatar_url, '') AS avatar_url, auth_provider, is_active, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.PasswordHash, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByNickname(ctx context.Context, nickname string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1`
	err := r.db.QueryRow(ctx, query, nickname).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByNickname: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE password_reset_token = $1 AND password_reset_expires_at > NOW()`

	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvalidToken
		}
		return nil, fmt.Errorf("repository.FindByPasswordResetToken: %w", err)
	}
	return user, nil
}

func (r *Repository) SetPasswordResetToken(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	query := `
	UPDATE users
	SET password_reset_token = $1, password_reset_expires_at = $2, updated_at = NOW()
	WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, query, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("repository.SetPasswordResetToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdatePasswordAndClearResetToken(ctx context.Context, userID string, passwordHash string) error {
	query := `
	UPDATE users
	SET password_hash = $1, password_reset_token = NULL, password_reset_expires_at = NULL, updated_at = NOW()
	WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdatePasswordAndClearResetToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateActivationToken(ctx context.Context, userID, newToken string, expiresAt time.Time) error {
	query := `
	UPDATE users
	SET activation_token = $1, activation_expires_at = $2, updated_at = NOW()
	WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, query, newToken, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdateActivationToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateInactiveUser(ctx context.Context, user *models.User, passwordHash, activationToken string, expiresAt time.Time) (*models.User, error) {
	query := `
	INSERT INTO users (nickname, email, password_hash, role, auth_provider, is_active, activation_token, activation_expires_at)
	VALUES ($1, $2, $3, $4, 'local', FALSE, $5, $6)
	RETURNING ` + userColumns

	created := &models.User{}
	err := r.db.QueryRow(ctx, query, user.Nickname, user.Email, passwordHash, user.Role, activationToken, expiresAt).Scan(
		&created.ID, &created.Nickname, &created.Email, &created.Role, &created.AvatarURL, &created.AuthProvider, &created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateInactiveUser: %w", err)
	}
	return created, nil
}

func (r *Repository) ActivateUser(ctx context.Context, token string) (*models.User, error) {
	query := `
	UPDATE users
	SET is_active = TRUE, activation_token = NULL, activation_expires_at = NULL, updated_at = NOW()
	WHERE activation_token = $1 AND activation_expires_at > NOW()
	RETURNING ` + userColumns

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvalidToken
		}
		return nil, fmt.Errorf("repository.ActivateUser: %w", err)
	}
	return user, nil
}

func (r *Repository) CreateOAuthUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
	INSERT INTO users (nickname, email, role, avatar_url, auth_provider, auth_provider_id, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	RETURNING ` + userColumns

	created := &models.User{}
	err := r.db.QueryRow(ctx, query, user.Nickname, user.Email, user.Role, user.AvatarURL, user.AuthProvider, user.AuthProviderID).Scan(
		&created.ID, &created.Nickname, &created.Email, &created.Role, &created.AvatarURL, &created.AuthProvider, &created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOAuthUser: %w", err)
	}
	return created, nil
}

func (r *Repository) Update(ctx context.Context, userID string, updateData models.UserUpdateData) (*models.User, error) {
	query := `
	UPDATE users
	SET nickname = COALESCE($1, nickname),
	    avatar_url = COALESCE($2, avatar_url),
	    updated_at = NOW()
	WHERE id = $3
	RETURNING ` + userColumns

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, updateData.Nickname, updateData.AvatarURL, userID).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.Update: %w", err)
	}
	return user, nil
}

// ListAll retrieves all registered users with pagination (for admin use).
func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Nickname, &user.Email, &user.Role, &user.AvatarURL, &user.AuthProvider, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("repository.ListAll scan: %w", err)
		}
		users = append(users, user)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll count: %w", err)
	}
	return users, total, nil
}

const addressColumns = `id, user_id, label, street_address, latitude, longitude, is_default, created_at, updated_at`

func (r *Repository) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAddresses: %w", err)
	}
	defer rows.Close()

	var addresses []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.StreetAddress, &a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListAddresses scan: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *Repository) AddAddress(ctx context.Context, userID string, req models.AddAddressRequest) (*models.Address, error) {
	query := `
	INSERT INTO addresses (user_id, label, street_address, latitude, longitude, is_default)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + addressColumns

	a := &models.Address{}
	err := r.db.QueryRow(ctx, query, userID, req.Label, req.StreetAddress, req.Latitude, req.Longitude, req.IsDefault).Scan(
		&a.ID, &a.UserID, &a.Label, &a.StreetAddress, &a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.AddAddress: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateAddress(ctx context.Context, addressID string, req models.UpdateAddressRequest) (*models.Address, error) {
	query := `
	UPDATE addresses
	SET label = COALESCE(NULLIF($1, ''), label),
	    street_address = COALESCE(NULLIF($2, ''), street_address),
	    latitude = COALESCE($3, latitude),
	    longitude = COALESCE($4, longitude),
	    is_default = COALESCE($5, is_default),
	    updated_at = NOW()
	WHERE id = $6
	RETURNING ` + addressColumns

	a := &models.Address{}
	err := r.db.QueryRow(ctx, query, req.Label, req.StreetAddress, req.Latitude, req.Longitude, req.IsDefault, addressID).Scan(
		&a.ID, &a.UserID, &a.Label, &a.StreetAddress, &a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateAddress: %w", err)
	}
	return a, nil
}

func (r *Repository) DeleteAddress(ctx context.Context, userID, addressID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return fmt.Errorf("repository.DeleteAddress: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) ClearDefaultAddress(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`, userID)
	if err != nil {
		return fmt.Errorf("repository.ClearDefaultAddress: %w", err)
	}
	return nil
}

func (r *Repository) VerifyAddressOwner(ctx context.Context, userID, addressID string) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2)`, addressID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("repository.VerifyAddressOwner: %w", err)
	}
	if !exists {
		return models.ErrNotFound
	}
	return nil
}
