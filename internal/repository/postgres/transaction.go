package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
)

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a
// database transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a new ledger transaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, wallet_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		txn.ID,
		txn.WalletID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.CreatedAt,
	)

	return err
}

// GetByWalletID retrieves a wallet's transactions, newest first.
func (r *TransactionRepository) GetByWalletID(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, description, created_at
		FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.WalletID,
			&txn.Type,
			&txn.Amount,
			&txn.Description,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}
	return txns, rows.Err()
}

// SumByWalletID recomputes the wallet balance from its transaction log.
func (r *TransactionRepository) SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE -amount END), 0)
		FROM transactions WHERE wallet_id = $1
	`

	var sum decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, walletID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}
