package repository

import (
	"context"
	"time"

	"ridenow/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// Create adds a new driver profile.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByUserID retrieves the driver profile attached to a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// SetActive toggles a driver's availability. activatedAt is recorded when
	// the driver goes active.
	SetActive(ctx context.Context, userID string, active bool, activatedAt time.Time) error

	// ListActive retrieves all currently active drivers.
	ListActive(ctx context.Context) ([]*domain.Driver, error)

	// ListEligible retrieves active drivers with no non-terminal ride,
	// ordered by activation time (oldest first) with driver ID as tie-break.
	ListEligible(ctx context.Context) ([]*domain.Driver, error)
}
