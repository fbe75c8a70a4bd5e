package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, user_id, vehicle_model, vehicle_number, rating, is_active, activated_at, created_at`

// Create adds a new driver profile.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.UserID,
		driver.VehicleModel,
		driver.VehicleNumber,
		driver.Rating,
		driver.IsActive,
		nullTime(driver.ActivatedAt),
		driver.CreatedAt,
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// GetByUserID retrieves the driver profile attached to a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// SetActive toggles a driver's availability.
func (r *DriverRepository) SetActive(ctx context.Context, userID string, active bool, activatedAt time.Time) error {
	query := `
		UPDATE drivers
		SET is_active = $1, activated_at = CASE WHEN $1 THEN $2 ELSE activated_at END
		WHERE user_id = $3
	`

	result, err := r.q.ExecContext(ctx, query, active, activatedAt, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListActive retrieves all currently active drivers.
func (r *DriverRepository) ListActive(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE is_active = true ORDER BY activated_at ASC, id ASC`

	return r.list(ctx, query)
}

// ListEligible retrieves active drivers with no non-terminal ride, oldest
// activation first, driver ID as tie-break.
func (r *DriverRepository) ListEligible(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers d
		WHERE d.is_active = true
		  AND NOT EXISTS (
			SELECT 1 FROM rides r
			WHERE r.driver_id = d.user_id
			  AND r.status NOT IN ('completed', 'cancelled')
		  )
		ORDER BY d.activated_at ASC, d.id ASC
	`

	return r.list(ctx, query)
}

func (r *DriverRepository) list(ctx context.Context, query string) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func scanDriver(s scanner) (*domain.Driver, error) {
	var driver domain.Driver
	var activatedAt sql.NullTime

	err := s.Scan(
		&driver.ID,
		&driver.UserID,
		&driver.VehicleModel,
		&driver.VehicleNumber,
		&driver.Rating,
		&driver.IsActive,
		&activatedAt,
		&driver.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if activatedAt.Valid {
		driver.ActivatedAt = activatedAt.Time
	}

	return &driver, nil
}
