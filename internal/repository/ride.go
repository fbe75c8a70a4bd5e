package repository

import (
	"context"

	"ridenow/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByRiderID retrieves a rider's rides, newest first.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// GetActiveByDriverID returns the driver's non-terminal ride, or nil if
	// the driver has none.
	GetActiveByDriverID(ctx context.Context, driverUserID string) (*domain.Ride, error)

	// Update updates an existing ride, guarded on its current status. The
	// write applies only while the stored status still equals from; a stale
	// from fails with ErrConflict and changes nothing, so concurrent
	// transitions against the same ride serialize on the row.
	Update(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error
}
