package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/service"
)

// ──────────────────────────────────────────────
// LEDGER
// ──────────────────────────────────────────────

func TestLedger_CreditAppendsEntryAndUpdatesBalance(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "0")

	txn, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionCredit, decimal.NewFromInt(500), "Wallet top-up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Type != domain.TransactionCredit {
		t.Errorf("expected credit, got %s", txn.Type)
	}
	if txn.Amount.StringFixed(2) != "500.00" {
		t.Errorf("expected amount 500.00, got %s", txn.Amount.StringFixed(2))
	}

	balance, err := f.ledgerService.GetBalance(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.StringFixed(2) != "500.00" {
		t.Errorf("expected balance 500.00, got %s", balance.StringFixed(2))
	}
	if n := f.txns.Count("wallet-1"); n != 1 {
		t.Errorf("expected 1 transaction, got %d", n)
	}
}

func TestLedger_DebitBeyondBalanceRecordsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "100")

	_, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionDebit, decimal.NewFromInt(250), "Ride payment")
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if got := f.wallets.GetBalance("wallet-1").StringFixed(2); got != "100.00" {
		t.Errorf("balance changed on failed debit: %s", got)
	}
	if n := f.txns.Count("wallet-1"); n != 0 {
		t.Errorf("expected no transactions, got %d", n)
	}
}

func TestLedger_ExactBalanceDebitAllowed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "100")

	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionDebit, decimal.NewFromInt(100), "Ride payment"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.wallets.GetBalance("wallet-1").StringFixed(2); got != "0.00" {
		t.Errorf("expected 0.00, got %s", got)
	}
}

func TestLedger_ApplyEntryValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "100")

	if _, err := f.ledgerService.ApplyEntry(ctx, "", domain.TransactionCredit, decimal.NewFromInt(1), ""); !errors.Is(err, service.ErrInvalidWalletID) {
		t.Errorf("expected ErrInvalidWalletID, got %v", err)
	}
	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", "transfer", decimal.NewFromInt(1), ""); !errors.Is(err, service.ErrInvalidTransactionType) {
		t.Errorf("expected ErrInvalidTransactionType, got %v", err)
	}
	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionCredit, decimal.Zero, ""); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionDebit, decimal.NewFromInt(-5), ""); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestLedger_BalanceMatchesTransactionSum(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "0")

	entries := []struct {
		entryType domain.TransactionType
		amount    string
	}{
		{domain.TransactionCredit, "1000"},
		{domain.TransactionDebit, "182.40"},
		{domain.TransactionCredit, "250.25"},
		{domain.TransactionDebit, "67.85"},
	}
	for _, e := range entries {
		if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", e.entryType, decimal.RequireFromString(e.amount), "test"); err != nil {
			t.Fatalf("apply %s %s: %v", e.entryType, e.amount, err)
		}
	}

	result, err := f.ledgerService.Reconcile(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Consistent {
		t.Errorf("expected consistent ledger: cached=%s computed=%s",
			result.CachedBalance.StringFixed(2), result.ComputedBalance.StringFixed(2))
	}
	if result.CachedBalance.StringFixed(2) != "1000.00" {
		t.Errorf("expected balance 1000.00, got %s", result.CachedBalance.StringFixed(2))
	}
}

func TestLedger_ReconcileDetectsDrift(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "0")

	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionCredit, decimal.NewFromInt(300), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Corrupt the cached balance behind the ledger's back.
	f.wallets.AddWallet(&domain.Wallet{
		ID:      "wallet-1",
		UserID:  "rider-1",
		Balance: decimal.NewFromInt(999),
	})

	result, err := f.ledgerService.Reconcile(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consistent {
		t.Error("expected drift to be reported")
	}
	if result.ComputedBalance.StringFixed(2) != "300.00" {
		t.Errorf("expected computed 300.00, got %s", result.ComputedBalance.StringFixed(2))
	}
}

func TestLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "500")

	// 10 concurrent debits of 100 against a balance of 500: exactly 5 can land.
	var successes int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionDebit, decimal.NewFromInt(100), "concurrent")
			if err == nil {
				atomic.AddInt32(&successes, 1)
			} else if !errors.Is(err, service.ErrInsufficientBalance) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 5 {
		t.Fatalf("expected exactly 5 successful debits, got %d", successes)
	}
	if got := f.wallets.GetBalance("wallet-1").StringFixed(2); got != "0.00" {
		t.Errorf("expected final balance 0.00, got %s", got)
	}
	if n := f.txns.Count("wallet-1"); n != 5 {
		t.Errorf("expected 5 transactions, got %d", n)
	}
}

func TestLedger_Transactions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-1", "0")

	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionCredit, decimal.NewFromInt(100), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.ledgerService.ApplyEntry(ctx, "wallet-1", domain.TransactionDebit, decimal.NewFromInt(40), "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txns, err := f.ledgerService.Transactions(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
}
