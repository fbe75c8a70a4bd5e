package repository

import "context"

// TxRepos bundles transaction-scoped repositories. Every repository in the
// bundle operates on the same underlying storage transaction.
type TxRepos struct {
	Users        UserRepository
	Drivers      DriverRepository
	Rides        RideRepository
	Wallets      WalletRepository
	Transactions TransactionRepository
}

// Transactor runs a function within a single atomic storage transaction. If
// fn returns an error every write performed through the TxRepos is rolled
// back; otherwise all writes commit together. This is the boundary that keeps
// ride completion and its ledger entries, or a ledger entry and its balance
// update, from ever being observable in a partially-applied state.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r TxRepos) error) error
}
