package service

import (
	"time"

	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
)

// FareConfig contains fare calculation configuration.
type FareConfig struct {
	PricePerKm          map[domain.RideType]decimal.Decimal
	PeakMultiplier      decimal.Decimal // morning and evening rush windows
	LateNightMultiplier decimal.Decimal
}

// DefaultFareConfig returns the default fare configuration.
func DefaultFareConfig() FareConfig {
	return FareConfig{
		PricePerKm: map[domain.RideType]decimal.Decimal{
			domain.RideTypeMini:   decimal.NewFromInt(12),
			domain.RideTypePrime:  decimal.NewFromInt(18),
			domain.RideTypeSUV:    decimal.NewFromInt(25),
			domain.RideTypeLuxury: decimal.NewFromInt(35),
		},
		PeakMultiplier:      decimal.NewFromFloat(1.5),
		LateNightMultiplier: decimal.NewFromFloat(1.3),
	}
}

// FareService computes ride fares. It is pure: no side effects, and the same
// (distance, ride type, time) always produces the same fare.
type FareService struct {
	cfg FareConfig
}

// NewFareService creates a new FareService.
func NewFareService(cfg FareConfig) *FareService {
	return &FareService{cfg: cfg}
}

// ComputeFare returns pricePerKm[rideType] * distanceKm * surge, rounded to
// 2 decimal places (half-up). The result is always strictly positive for
// valid input.
func (s *FareService) ComputeFare(distanceKm decimal.Decimal, rideType domain.RideType, at time.Time) (decimal.Decimal, error) {
	if !distanceKm.IsPositive() {
		return decimal.Zero, ErrInvalidDistance
	}

	pricePerKm, ok := s.cfg.PricePerKm[rideType]
	if !ok {
		return decimal.Zero, ErrInvalidRideType
	}

	fare := pricePerKm.Mul(distanceKm).Mul(s.SurgeMultiplier(at))

	return fare.Round(2), nil
}

// SurgeMultiplier returns the time-of-day surge factor for the given local
// time. Windows are half-open and evaluated in fixed priority order:
// peak (08:00-10:00, 17:00-20:00) beats late-night (22:00-06:00) beats normal.
func (s *FareService) SurgeMultiplier(at time.Time) decimal.Decimal {
	hour := at.Hour()

	switch {
	case (hour >= 8 && hour < 10) || (hour >= 17 && hour < 20):
		return s.cfg.PeakMultiplier
	case hour >= 22 || hour < 6:
		return s.cfg.LateNightMultiplier
	default:
		return decimal.NewFromInt(1)
	}
}
