package postgres

import (
	"context"
	"database/sql"

	"ridenow/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Transactor implements repository.Transactor on top of database/sql
// transactions. All repositories handed to fn share one *sql.Tx.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ repository.Transactor = (*Transactor)(nil)

// InTx runs fn within a single database transaction.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context, r repository.TxRepos) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.TxRepos{
		Users:        NewUserRepositoryWithTx(tx),
		Drivers:      NewDriverRepositoryWithTx(tx),
		Rides:        NewRideRepositoryWithTx(tx),
		Wallets:      NewWalletRepositoryWithTx(tx),
		Transactions: NewTransactionRepositoryWithTx(tx),
	}

	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
