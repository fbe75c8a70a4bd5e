package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) snapshot() map[string]domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.User, len(m.users))
	for id, u := range m.users {
		snap[id] = *u
	}
	return snap
}

func (m *MockUserRepository) restore(snap map[string]domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*domain.User, len(snap))
	for id, u := range snap {
		copy := u
		m.users[id] = &copy
	}
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
// If Rides is set, ListEligible excludes drivers with a non-terminal ride.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	Rides *MockRideRepository

	// Counters for verification
	CreateCallCount    int32
	SetActiveCallCount int32

	// Error injection
	CreateError       error
	SetActiveError    error
	ListEligibleError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) SetActive(ctx context.Context, userID string, active bool, activatedAt time.Time) error {
	atomic.AddInt32(&m.SetActiveCallCount, 1)
	if m.SetActiveError != nil {
		return m.SetActiveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			d.IsActive = active
			if active {
				d.ActivatedAt = activatedAt
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockDriverRepository) ListActive(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, d := range m.drivers {
		if d.IsActive {
			copy := *d
			result = append(result, &copy)
		}
	}
	sortDrivers(result)
	return result, nil
}

func (m *MockDriverRepository) ListEligible(ctx context.Context) ([]*domain.Driver, error) {
	if m.ListEligibleError != nil {
		return nil, m.ListEligibleError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, d := range m.drivers {
		if !d.IsActive {
			continue
		}
		if m.Rides != nil && m.Rides.hasActiveRide(d.UserID) {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}
	sortDrivers(result)
	return result, nil
}

// SetDriverActive flips a driver directly (for test setup mid-scenario).
func (m *MockDriverRepository) SetDriverActive(id string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.drivers[id]; ok {
		d.IsActive = active
	}
}

func (m *MockDriverRepository) snapshot() map[string]domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Driver, len(m.drivers))
	for id, d := range m.drivers {
		snap[id] = *d
	}
	return snap
}

func (m *MockDriverRepository) restore(snap map[string]domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = make(map[string]*domain.Driver, len(snap))
	for id, d := range snap {
		copy := d
		m.drivers[id] = &copy
	}
}

// sortDrivers orders by activation time ascending, driver ID as tie-break,
// mirroring the eligibility query.
func sortDrivers(drivers []*domain.Driver) {
	sort.Slice(drivers, func(i, j int) bool {
		if !drivers[i].ActivatedAt.Equal(drivers[j].ActivatedAt) {
			return drivers[i].ActivatedAt.Before(drivers[j].ActivatedAt)
		}
		return drivers[i].ID < drivers[j].ID
	})
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.RiderID == riderID {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockRideRepository) GetActiveByDriverID(ctx context.Context, driverUserID string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.DriverID == driverUserID && !r.Status.Terminal() {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

// Update applies the write only while the stored status still equals from,
// matching the conditional SQL update.
func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rides[ride.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrConflict
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) hasActiveRide(driverUserID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.DriverID == driverUserID && !r.Status.Terminal() {
			return true
		}
	}
	return false
}

func (m *MockRideRepository) snapshot() map[string]domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Ride, len(m.rides))
	for id, r := range m.rides {
		snap[id] = *r
	}
	return snap
}

func (m *MockRideRepository) restore(snap map[string]domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = make(map[string]*domain.Ride, len(snap))
	for id, r := range snap {
		copy := r
		m.rides[id] = &copy
	}
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository. Debit
// enforces the non-negative balance invariant like the conditional SQL
// update does.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	// Counters for verification
	CreditCallCount int32
	DebitCallCount  int32

	// Error injection
	CreditError error
	DebitError  error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *wallet
	m.wallets[wallet.ID] = &copy
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *wallet
	return &copy, nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return repository.ErrNotFound
	}
	wallet.Balance = wallet.Balance.Add(amount)
	wallet.UpdatedAt = time.Now()
	return nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if wallet.Balance.LessThan(amount) {
		return repository.ErrInsufficientFunds
	}
	wallet.Balance = wallet.Balance.Sub(amount)
	wallet.UpdatedAt = time.Now()
	return nil
}

// GetBalance returns the stored balance for test assertions.
func (m *MockWalletRepository) GetBalance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w.Balance
	}
	return decimal.Zero
}

func (m *MockWalletRepository) snapshot() map[string]domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Wallet, len(m.wallets))
	for id, w := range m.wallets {
		snap[id] = *w
	}
	return snap
}

func (m *MockWalletRepository) restore(snap map[string]domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets = make(map[string]*domain.Wallet, len(snap))
	for id, w := range snap {
		copy := w
		m.wallets[id] = &copy
	}
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns []*domain.Transaction

	// Error injection
	CreateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *txn
	m.txns = append(m.txns, &copy)
	return nil
}

func (m *MockTransactionRepository) GetByWalletID(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, t := range m.txns {
		if t.WalletID == walletID {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockTransactionRepository) SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.txns {
		if t.WalletID != walletID {
			continue
		}
		if t.Type == domain.TransactionCredit {
			sum = sum.Add(t.Amount)
		} else {
			sum = sum.Sub(t.Amount)
		}
	}
	return sum, nil
}

// Count returns the number of stored transactions for test assertions.
func (m *MockTransactionRepository) Count(walletID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.txns {
		if t.WalletID == walletID {
			n++
		}
	}
	return n
}

func (m *MockTransactionRepository) snapshot() []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.Transaction, len(m.txns))
	for i, t := range m.txns {
		snap[i] = *t
	}
	return snap
}

func (m *MockTransactionRepository) restore(snap []domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = make([]*domain.Transaction, len(snap))
	for i, t := range snap {
		copy := t
		m.txns[i] = &copy
	}
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor implements repository.Transactor over the mock repositories.
// State is snapshotted before fn runs and restored if fn fails, giving the
// same all-or-nothing behavior as a database transaction.
type MockTransactor struct {
	mu sync.Mutex

	Users        *MockUserRepository
	Drivers      *MockDriverRepository
	Rides        *MockRideRepository
	Wallets      *MockWalletRepository
	Transactions *MockTransactionRepository

	// Error injection
	InTxError error
}

// NewMockTransactor creates a transactor over the given mocks.
func NewMockTransactor(
	users *MockUserRepository,
	drivers *MockDriverRepository,
	rides *MockRideRepository,
	wallets *MockWalletRepository,
	txns *MockTransactionRepository,
) *MockTransactor {
	return &MockTransactor{
		Users:        users,
		Drivers:      drivers,
		Rides:        rides,
		Wallets:      wallets,
		Transactions: txns,
	}
}

func (m *MockTransactor) InTx(ctx context.Context, fn func(ctx context.Context, r repository.TxRepos) error) error {
	if m.InTxError != nil {
		return m.InTxError
	}

	// Serialize transactions so snapshots are consistent.
	m.mu.Lock()
	defer m.mu.Unlock()

	userSnap := m.Users.snapshot()
	driverSnap := m.Drivers.snapshot()
	rideSnap := m.Rides.snapshot()
	walletSnap := m.Wallets.snapshot()
	txnSnap := m.Transactions.snapshot()

	err := fn(ctx, repository.TxRepos{
		Users:        m.Users,
		Drivers:      m.Drivers,
		Rides:        m.Rides,
		Wallets:      m.Wallets,
		Transactions: m.Transactions,
	})
	if err != nil {
		m.Users.restore(userSnap)
		m.Drivers.restore(driverSnap)
		m.Rides.restore(rideSnap)
		m.Wallets.restore(walletSnap)
		m.Transactions.restore(txnSnap)
		return err
	}

	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:driver:"+driverID, ttl)
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	return m.release("lock:driver:" + driverID)
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:ride:"+rideID, ttl)
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return m.release("lock:ride:" + rideID)
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// IsDriverLocked checks if a driver claim is held (for test assertions).
func (m *MockLockStore) IsDriverLocked(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:driver:"+driverID]
	return exists && time.Now().Before(expiry)
}

// LockDriver pre-holds a driver claim (for test setup).
func (m *MockLockStore) LockDriver(driverID string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks["lock:driver:"+driverID] = time.Now().Add(ttl)
}
