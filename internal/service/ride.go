package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
)

// RideService owns the ride lifecycle: creation, the status state machine,
// driver assignment, and completion settlement against the ledger.
type RideService struct {
	tx                  repository.Transactor
	rideRepo            repository.RideRepository
	driverRepo          repository.DriverRepository
	walletRepo          repository.WalletRepository
	fareService         *FareService
	notificationService *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	tx repository.Transactor,
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	walletRepo repository.WalletRepository,
	fareService *FareService,
	notificationService *NotificationService,
) *RideService {
	return &RideService{
		tx:                  tx,
		rideRepo:            rideRepo,
		driverRepo:          driverRepo,
		walletRepo:          walletRepo,
		fareService:         fareService,
		notificationService: notificationService,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RiderID        string
	PickupLocation string
	DropLocation   string
	DistanceKm     decimal.Decimal
	RideType       domain.RideType
}

// CreateRide validates the request, computes the fare for the current time,
// and persists the ride in searching state. The fare is fixed here and never
// recomputed.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	fare, err := s.fareService.ComputeFare(req.DistanceKm, req.RideType, now)
	if err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		RiderID:        req.RiderID,
		PickupLocation: strings.TrimSpace(req.PickupLocation),
		DropLocation:   strings.TrimSpace(req.DropLocation),
		DistanceKm:     req.DistanceKm.Round(2),
		RideType:       req.RideType,
		Fare:           fare,
		Status:         domain.RideStatusSearching,
		CreatedAt:      now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

func (s *RideService) validateCreateRequest(req CreateRideRequest) error {
	if req.RiderID == "" {
		return ErrInvalidRiderID
	}
	if strings.TrimSpace(req.PickupLocation) == "" {
		return ErrMissingPickupLocation
	}
	if strings.TrimSpace(req.DropLocation) == "" {
		return ErrMissingDropLocation
	}
	if !req.DistanceKm.IsPositive() {
		return ErrInvalidDistance
	}
	if _, ok := domain.ParseRideType(string(req.RideType)); !ok {
		return ErrInvalidRideType
	}
	return nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	return s.rideRepo.GetByID(ctx, rideID)
}

// History retrieves a rider's rides, newest first.
func (s *RideService) History(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	return s.rideRepo.GetByRiderID(ctx, riderID)
}

// Transition moves a ride along its lifecycle. Illegal edges fail with
// ErrIllegalTransition and change nothing. Transitioning into completed
// settles the fare against the rider's and driver's wallets atomically with
// the status change; cancelled stamps cancelledAt and the optional reason.
func (s *RideService) Transition(ctx context.Context, rideID string, target domain.RideStatus, reason string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	from := ride.Status
	if !from.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	switch target {
	case domain.RideStatusCompleted:
		if err := s.complete(ctx, ride, from); err != nil {
			return nil, err
		}
		_ = s.notificationService.NotifyRideCompleted(ctx, ride)

	case domain.RideStatusCancelled:
		ride.Status = domain.RideStatusCancelled
		ride.CancelledAt = time.Now()
		ride.CancelReason = reason
		if err := s.rideRepo.Update(ctx, ride, from); err != nil {
			ride.Status = from
			ride.CancelledAt = time.Time{}
			ride.CancelReason = ""
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrIllegalTransition
			}
			return nil, err
		}
		_ = s.notificationService.NotifyRideCancelled(ctx, ride)

	default:
		ride.Status = target
		if err := s.rideRepo.Update(ctx, ride, from); err != nil {
			ride.Status = from
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrIllegalTransition
			}
			return nil, err
		}
	}

	return ride, nil
}

// complete stamps completedAt and settles the fare (rider debit, driver
// credit) in one storage transaction with the ride update. Any
// settlement failure rolls the whole transition back; the ride is never left
// completed without its ledger entries. The status-guarded ride update makes
// concurrent completions of the same ride settle at most once.
func (s *RideService) complete(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error {
	if ride.DriverID == "" {
		return ErrIllegalTransition
	}

	ride.Status = domain.RideStatusCompleted
	ride.CompletedAt = time.Now()

	err := s.tx.InTx(ctx, func(ctx context.Context, r repository.TxRepos) error {
		if err := r.Rides.Update(ctx, ride, from); err != nil {
			return err
		}

		riderWallet, err := r.Wallets.GetByUserID(ctx, ride.RiderID)
		if err != nil {
			return fmt.Errorf("%w: rider wallet: %v", ErrLedgerFailure, err)
		}

		if _, err := applyEntry(ctx, r, riderWallet.ID, domain.TransactionDebit, ride.Fare,
			"Ride payment – "+ride.PickupLocation+" to "+ride.DropLocation); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return ErrInsufficientBalance
			}
			return fmt.Errorf("%w: rider debit: %v", ErrLedgerFailure, err)
		}

		driverWallet, err := r.Wallets.GetByUserID(ctx, ride.DriverID)
		if err != nil {
			return fmt.Errorf("%w: driver wallet: %v", ErrLedgerFailure, err)
		}

		if _, err := applyEntry(ctx, r, driverWallet.ID, domain.TransactionCredit, ride.Fare,
			"Ride earnings – "+ride.PickupLocation+" to "+ride.DropLocation); err != nil {
			return fmt.Errorf("%w: driver credit: %v", ErrLedgerFailure, err)
		}

		return nil
	})
	if err != nil {
		// Roll back the in-memory mutation too; the caller still holds ride.
		ride.Status = from
		ride.CompletedAt = time.Time{}
		if errors.Is(err, repository.ErrConflict) {
			return ErrIllegalTransition
		}
		return err
	}

	return nil
}

// AssignDriver attaches a driver to a searching ride and moves it to found.
// Assignment is permanent: once set, DriverID never changes for the ride's
// lifetime. Only legal while the ride is searching.
func (s *RideService) AssignDriver(ctx context.Context, rideID, driverUserID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverUserID == "" {
		return nil, ErrInvalidDriverID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusSearching {
		return nil, ErrIllegalAssignment
	}

	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverUnavailable
		}
		return nil, err
	}

	if !driver.IsActive {
		return nil, ErrDriverUnavailable
	}

	active, err := s.rideRepo.GetActiveByDriverID(ctx, driverUserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDriverUnavailable
	}

	ride.DriverID = driverUserID
	ride.Status = domain.RideStatusFound

	err = s.tx.InTx(ctx, func(ctx context.Context, r repository.TxRepos) error {
		return r.Rides.Update(ctx, ride, domain.RideStatusSearching)
	})
	if err != nil {
		ride.DriverID = ""
		ride.Status = domain.RideStatusSearching
		if errors.Is(err, repository.ErrConflict) {
			// Another dispatch assigned the ride first.
			return nil, ErrIllegalAssignment
		}
		return nil, err
	}

	_ = s.notificationService.NotifyDriverAssigned(ctx, ride)

	return ride, nil
}
