package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a boundary amount is not a plain positive
// decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// amountPattern accepts plain decimal notation only. Scientific notation,
// signs, NaN and infinities are all rejected before parsing.
var amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseAmount parses a string-encoded monetary amount into a fixed-point
// decimal rounded to 2 fractional digits (half-up). Amounts cross the API
// boundary as strings and are parsed exactly once; raw strings never travel
// further into the core.
func ParseAmount(s string) (decimal.Decimal, error) {
	return parsePositiveDecimal(s)
}

// ParseDistance parses a string-encoded distance in kilometers with the same
// strict grammar as ParseAmount.
func ParseDistance(s string) (decimal.Decimal, error) {
	return parsePositiveDecimal(s)
}

func parsePositiveDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
