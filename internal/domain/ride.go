package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusSearching RideStatus = "searching"
	RideStatusFound     RideStatus = "found"
	RideStatusOnWay     RideStatus = "on-way"
	RideStatusArrived   RideStatus = "arrived"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// ParseRideStatus validates a ride status string.
func ParseRideStatus(s string) (RideStatus, bool) {
	switch RideStatus(s) {
	case RideStatusSearching, RideStatusFound, RideStatusOnWay,
		RideStatusArrived, RideStatusCompleted, RideStatusCancelled:
		return RideStatus(s), true
	}
	return "", false
}

// Terminal reports whether no further transition is possible from the status.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// nextStatus holds the single forward edge of the ride lifecycle chain.
var nextStatus = map[RideStatus]RideStatus{
	RideStatusSearching: RideStatusFound,
	RideStatusFound:     RideStatusOnWay,
	RideStatusOnWay:     RideStatusArrived,
	RideStatusArrived:   RideStatusCompleted,
}

// CanTransitionTo reports whether the edge s -> target is legal. The lifecycle
// is a strict chain searching -> found -> on-way -> arrived -> completed, with
// cancelled reachable from any non-terminal status.
func (s RideStatus) CanTransitionTo(target RideStatus) bool {
	if s.Terminal() {
		return false
	}
	if target == RideStatusCancelled {
		return true
	}
	return nextStatus[s] == target
}

// RideType represents the vehicle class requested for a ride.
type RideType string

const (
	RideTypeMini   RideType = "mini"
	RideTypePrime  RideType = "prime"
	RideTypeSUV    RideType = "suv"
	RideTypeLuxury RideType = "luxury"
)

// ParseRideType validates a ride type string.
func ParseRideType(s string) (RideType, bool) {
	switch RideType(s) {
	case RideTypeMini, RideTypePrime, RideTypeSUV, RideTypeLuxury:
		return RideType(s), true
	}
	return "", false
}

// Ride represents a ride request in the system.
//
// Fare is fixed at creation and never mutated afterwards. DriverID is set at
// most once, by driver assignment, and a ride in a terminal status is
// immutable.
type Ride struct {
	ID             string
	RiderID        string
	DriverID       string // user ID of the assigned driver, empty while searching
	PickupLocation string
	DropLocation   string
	DistanceKm     decimal.Decimal
	RideType       RideType
	Fare           decimal.Decimal
	Status         RideStatus
	CreatedAt      time.Time
	CompletedAt    time.Time
	CancelledAt    time.Time
	CancelReason   string
}
