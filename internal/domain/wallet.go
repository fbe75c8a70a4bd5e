package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the cached balance for a user. The balance is never negative
// and is mutated exclusively through ledger entries; at any point it equals
// the sum of the wallet's transactions (credits minus debits).
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionType distinguishes ledger credits from debits.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// ParseTransactionType validates a transaction type string.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TransactionCredit, TransactionDebit:
		return TransactionType(s), true
	}
	return "", false
}

// Transaction is an immutable, append-only ledger record. Amount is always
// strictly positive; the sign is carried by Type.
type Transaction struct {
	ID          string
	WalletID    string
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
