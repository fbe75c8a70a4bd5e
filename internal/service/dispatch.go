package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"ridenow/internal/domain"
	"ridenow/internal/redis"
	"ridenow/internal/repository"
)

const (
	driverLockTTL    = 10 * time.Second
	rideLockTTL      = 30 * time.Second // Lock ride during dispatch
	maxClaimAttempts = 10
)

// DispatchService matches a searching ride to exactly one eligible driver.
//
// Selection is deterministic: earliest-activated eligible driver, lowest
// driver ID as tie-break. The at-most-one-assignment guarantee comes from the
// per-driver claim lock held across re-verification and assignment: a driver
// that turned ineligible between candidate selection and claim is skipped and
// the next candidate is tried, bounded by maxClaimAttempts.
type DispatchService struct {
	lockStore   redis.LockStoreInterface
	cacheStore  *redis.CacheStore
	driverRepo  repository.DriverRepository
	rideRepo    repository.RideRepository
	rideService *RideService
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	driverRepo repository.DriverRepository,
	rideRepo repository.RideRepository,
	rideService *RideService,
) *DispatchService {
	return &DispatchService{
		lockStore:   lockStore,
		cacheStore:  cacheStore,
		driverRepo:  driverRepo,
		rideRepo:    rideRepo,
		rideService: rideService,
	}
}

// AssignmentResult contains the result of a successful assignment.
type AssignmentResult struct {
	DriverID string // user ID of the assigned driver
	Ride     *domain.Ride
}

// RequestAssignment selects one eligible driver for a searching ride and
// performs the assignment atomically. ErrNoDriversAvailable is an expected,
// retryable outcome: the ride stays searching and the caller may retry later.
func (s *DispatchService) RequestAssignment(ctx context.Context, rideID string) (*AssignmentResult, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	// Only one dispatch attempt per ride at a time.
	locked, err := s.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrAssignmentInProgress
	}
	defer func() { _ = s.lockStore.ReleaseRideLock(ctx, rideID) }()

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusSearching {
		return nil, ErrIllegalAssignment
	}

	candidates, err := s.driverRepo.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	attempts := 0
	for _, candidate := range candidates {
		if attempts >= maxClaimAttempts {
			break
		}
		attempts++

		// Exclusive claim on the driver for the assignment decision.
		claimed, err := s.lockStore.AcquireDriverLock(ctx, candidate.ID, driverLockTTL)
		if err != nil {
			return nil, err
		}
		if !claimed {
			// Another dispatch is assigning this driver.
			continue
		}

		// Re-verify eligibility under the claim; the candidate list may be
		// stale by now.
		fresh, err := s.driverRepo.GetByID(ctx, candidate.ID)
		if err != nil {
			_ = s.lockStore.ReleaseDriverLock(ctx, candidate.ID)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if !fresh.IsActive {
			_ = s.lockStore.ReleaseDriverLock(ctx, candidate.ID)
			s.invalidateDriverCache(ctx, fresh.UserID)
			continue
		}

		assigned, err := s.rideService.AssignDriver(ctx, rideID, fresh.UserID)
		if err != nil {
			_ = s.lockStore.ReleaseDriverLock(ctx, candidate.ID)
			if errors.Is(err, ErrDriverUnavailable) {
				// Lost the race; retry against the remaining eligible set.
				continue
			}
			return nil, err
		}

		s.invalidateDriverCache(ctx, fresh.UserID)

		// Claim expires via TTL.
		return &AssignmentResult{
			DriverID: fresh.UserID,
			Ride:     assigned,
		}, nil
	}

	logrus.WithField("ride_id", rideID).Info("no eligible driver for ride")

	return nil, ErrNoDriversAvailable
}

func (s *DispatchService) invalidateDriverCache(ctx context.Context, userID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateDriver(ctx, userID)
}
