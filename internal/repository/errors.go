package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientFunds is returned by WalletRepository.Debit when the
	// wallet balance does not cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConflict is returned by a conditional update whose guard no longer
	// holds, meaning a concurrent writer got there first.
	ErrConflict = errors.New("concurrent update conflict")
)
