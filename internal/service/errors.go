package service

import "errors"

var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidWalletID is returned when wallet ID is empty.
	ErrInvalidWalletID = errors.New("invalid wallet id")

	// ErrMissingPickupLocation is returned when a ride request lacks a pickup.
	ErrMissingPickupLocation = errors.New("missing pickup location")

	// ErrMissingDropLocation is returned when a ride request lacks a drop.
	ErrMissingDropLocation = errors.New("missing drop location")

	// ErrInvalidDistance is returned when distance is not strictly positive.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidRideType is returned when the ride type is unrecognized.
	ErrInvalidRideType = errors.New("invalid ride type")

	// ErrInvalidRideStatus is returned when a status string is unrecognized.
	ErrInvalidRideStatus = errors.New("invalid ride status")

	// ErrIllegalTransition is returned when a status transition is not a
	// legal edge of the ride lifecycle.
	ErrIllegalTransition = errors.New("illegal ride status transition")

	// ErrIllegalAssignment is returned when assigning a driver to a ride
	// that is not searching.
	ErrIllegalAssignment = errors.New("ride is not accepting a driver assignment")

	// ErrDriverUnavailable is returned when the chosen driver is inactive or
	// already holds a non-terminal ride. Expected and retryable.
	ErrDriverUnavailable = errors.New("driver unavailable")

	// ErrNoDriversAvailable is returned when dispatch exhausts the eligible
	// driver set. Expected and retryable; the ride stays searching.
	ErrNoDriversAvailable = errors.New("no drivers available")

	// ErrAssignmentInProgress is returned when another dispatch attempt
	// already holds the ride's dispatch lock.
	ErrAssignmentInProgress = errors.New("assignment already in progress")

	// ErrInsufficientBalance is returned when a debit exceeds the wallet
	// balance. Surfaced to the rider as a payment failure.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrLedgerFailure is returned when ride completion cannot settle the
	// ledger; the enclosing ride transition is rolled back entirely.
	ErrLedgerFailure = errors.New("ledger settlement failed")

	// ErrInvalidTransactionType is returned when a ledger entry type is
	// neither credit nor debit.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidVehicleModel is returned when a vehicle model is too short.
	ErrInvalidVehicleModel = errors.New("invalid vehicle model")

	// ErrInvalidVehicleNumber is returned when a vehicle number is too short.
	ErrInvalidVehicleNumber = errors.New("invalid vehicle number")

	// ErrDriverAlreadyRegistered is returned when the user already has a
	// driver profile.
	ErrDriverAlreadyRegistered = errors.New("driver already registered")

	// ErrInvalidEmail is returned when an email is empty.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidRole is returned when a role is neither rider nor driver.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")
)
