package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
)

// WalletRepository defines the persistence operations for wallets. Balance
// mutations are row-level conditional updates so that concurrent operations on
// the same wallet serialize at the storage layer.
type WalletRepository interface {
	// Create persists a new wallet.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByID retrieves a wallet by ID.
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)

	// GetByUserID retrieves the wallet owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// Credit adds amount to the wallet balance.
	Credit(ctx context.Context, id string, amount decimal.Decimal) error

	// Debit subtracts amount from the wallet balance. Returns
	// ErrInsufficientFunds when the balance does not cover the amount; the
	// balance is left unchanged in that case.
	Debit(ctx context.Context, id string, amount decimal.Decimal) error
}

// TransactionRepository defines the persistence operations for ledger
// transactions. Records are append-only; there is no update or delete.
type TransactionRepository interface {
	// Create appends a new transaction.
	Create(ctx context.Context, txn *domain.Transaction) error

	// GetByWalletID retrieves a wallet's transactions, newest first.
	GetByWalletID(ctx context.Context, walletID string) ([]*domain.Transaction, error)

	// SumByWalletID recomputes the wallet balance from its transaction log
	// (credits minus debits). Used by the reconciliation diagnostic.
	SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error)
}
