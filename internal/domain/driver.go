package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver holds the driver profile attached to a user of role driver. A driver
// becomes eligible for dispatch only while IsActive is true. ActivatedAt is
// stamped on every activation and drives the deterministic earliest-activated
// selection policy.
type Driver struct {
	ID            string
	UserID        string
	VehicleModel  string
	VehicleNumber string
	Rating        decimal.Decimal
	IsActive      bool
	ActivatedAt   time.Time
	CreatedAt     time.Time
}
