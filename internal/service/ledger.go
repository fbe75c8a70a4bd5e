package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
)

// LedgerService maintains the append-only transaction log and the cached
// wallet balances. Every entry and its balance update commit as a single
// atomic unit; no transaction is ever recorded without the matching balance
// change.
type LedgerService struct {
	tx         repository.Transactor
	walletRepo repository.WalletRepository
	txnRepo    repository.TransactionRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	tx repository.Transactor,
	walletRepo repository.WalletRepository,
	txnRepo repository.TransactionRepository,
) *LedgerService {
	return &LedgerService{
		tx:         tx,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
	}
}

// ApplyEntry appends one ledger transaction and updates the cached balance by
// the same amount. A debit that exceeds the balance fails with
// ErrInsufficientBalance and records nothing.
func (s *LedgerService) ApplyEntry(
	ctx context.Context,
	walletID string,
	entryType domain.TransactionType,
	amount decimal.Decimal,
	description string,
) (*domain.Transaction, error) {
	if walletID == "" {
		return nil, ErrInvalidWalletID
	}
	if entryType != domain.TransactionCredit && entryType != domain.TransactionDebit {
		return nil, ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var txn *domain.Transaction
	err := s.tx.InTx(ctx, func(ctx context.Context, r repository.TxRepos) error {
		var err error
		txn, err = applyEntry(ctx, r, walletID, entryType, amount, description)
		return err
	})
	if err != nil {
		if err == repository.ErrInsufficientFunds {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wallet_id": walletID,
		"type":      entryType,
		"amount":    amount.StringFixed(2),
	}).Info("ledger entry applied")

	return txn, nil
}

// applyEntry performs the entry-plus-balance-update pair against
// transaction-scoped repositories. Callers that settle multiple wallets (ride
// completion) invoke it repeatedly inside one storage transaction.
func applyEntry(
	ctx context.Context,
	r repository.TxRepos,
	walletID string,
	entryType domain.TransactionType,
	amount decimal.Decimal,
	description string,
) (*domain.Transaction, error) {
	amount = amount.Round(2)

	var err error
	if entryType == domain.TransactionDebit {
		err = r.Wallets.Debit(ctx, walletID, amount)
	} else {
		err = r.Wallets.Credit(ctx, walletID, amount)
	}
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:          uuid.New().String(),
		WalletID:    walletID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := r.Transactions.Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetBalance returns the cached balance of a wallet.
func (s *LedgerService) GetBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	if walletID == "" {
		return decimal.Zero, ErrInvalidWalletID
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}

	return wallet.Balance, nil
}

// ReconcileResult reports the outcome of a ledger consistency check.
type ReconcileResult struct {
	WalletID        string
	CachedBalance   decimal.Decimal
	ComputedBalance decimal.Decimal
	Consistent      bool
}

// Reconcile recomputes the wallet balance from its transaction log and
// compares it with the cached balance. Diagnostic only; not on the request
// hot path.
func (s *LedgerService) Reconcile(ctx context.Context, walletID string) (*ReconcileResult, error) {
	if walletID == "" {
		return nil, ErrInvalidWalletID
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	computed, err := s.txnRepo.SumByWalletID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		WalletID:        walletID,
		CachedBalance:   wallet.Balance,
		ComputedBalance: computed,
		Consistent:      wallet.Balance.Equal(computed),
	}

	if !result.Consistent {
		logrus.WithFields(logrus.Fields{
			"wallet_id": walletID,
			"cached":    wallet.Balance.StringFixed(2),
			"computed":  computed.StringFixed(2),
		}).Error("wallet balance drift detected")
	}

	return result, nil
}

// Transactions returns a wallet's ledger entries, newest first.
func (s *LedgerService) Transactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	if walletID == "" {
		return nil, ErrInvalidWalletID
	}

	return s.txnRepo.GetByWalletID(ctx, walletID)
}
