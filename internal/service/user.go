package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
)

// UserService handles account registration. A user and their wallet are
// created together; the wallet starts at zero and is only ever mutated
// through ledger entries afterwards.
type UserService struct {
	tx       repository.Transactor
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(tx repository.Transactor, userRepo repository.UserRepository) *UserService {
	return &UserService{
		tx:       tx,
		userRepo: userRepo,
	}
}

// RegisterUserRequest contains the parameters for creating an account.
type RegisterUserRequest struct {
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
}

// Register creates a user and their wallet in one storage transaction.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if _, ok := domain.ParseRole(string(req.Role)); !ok {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		CreatedAt: now,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context, r repository.TxRepos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}

		wallet := &domain.Wallet{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}

		return r.Wallets.Create(ctx, wallet)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidEmail
	}

	return s.userRepo.GetByEmail(ctx, email)
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrInvalidUserID
	}

	return s.userRepo.GetByID(ctx, id)
}
