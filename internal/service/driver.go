package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/redis"
	"ridenow/internal/repository"
)

// defaultRating is assigned to newly registered drivers.
var defaultRating = decimal.NewFromInt(5)

// DriverService handles driver profile operations.
type DriverService struct {
	driverRepo repository.DriverRepository
	cacheStore *redis.CacheStore
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository, cacheStore *redis.CacheStore) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		cacheStore: cacheStore,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	UserID        string
	VehicleModel  string
	VehicleNumber string
}

// Register creates a driver profile for a user. New drivers start inactive
// and must toggle themselves active to receive assignments.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	model := strings.TrimSpace(req.VehicleModel)
	if len(model) < 2 {
		return nil, ErrInvalidVehicleModel
	}

	number := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if len(number) < 4 {
		return nil, ErrInvalidVehicleNumber
	}

	if _, err := s.driverRepo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, ErrDriverAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	driver := &domain.Driver{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		VehicleModel:  model,
		VehicleNumber: number,
		Rating:        defaultRating,
		IsActive:      false,
		CreatedAt:     time.Now(),
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// Profile retrieves a driver profile by owning user, cache first.
func (s *DriverService) Profile(ctx context.Context, userID string) (*domain.Driver, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetDriver(ctx, userID); err == nil && cached != nil {
			if driver, ok := cachedToDriver(cached); ok {
				return driver, nil
			}
		}
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheDriver(ctx, driver)

	return driver, nil
}

// ToggleActive flips a driver's availability. Activation stamps activatedAt,
// which dispatch uses for its earliest-activated selection.
func (s *DriverService) ToggleActive(ctx context.Context, userID string, active bool) (*domain.Driver, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if err := s.driverRepo.SetActive(ctx, userID, active, time.Now()); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateDriver(ctx, userID)
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheDriver(ctx, driver)

	return driver, nil
}

// ActiveDrivers retrieves all drivers currently accepting assignments.
func (s *DriverService) ActiveDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.ListActive(ctx)
}

func (s *DriverService) cacheDriver(ctx context.Context, driver *domain.Driver) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.SetDriver(ctx, &redis.CachedDriver{
		ID:            driver.ID,
		UserID:        driver.UserID,
		VehicleModel:  driver.VehicleModel,
		VehicleNumber: driver.VehicleNumber,
		Rating:        driver.Rating.StringFixed(2),
		IsActive:      driver.IsActive,
		ActivatedAt:   driver.ActivatedAt,
	})
}

func cachedToDriver(cached *redis.CachedDriver) (*domain.Driver, bool) {
	rating, err := decimal.NewFromString(cached.Rating)
	if err != nil {
		return nil, false
	}
	return &domain.Driver{
		ID:            cached.ID,
		UserID:        cached.UserID,
		VehicleModel:  cached.VehicleModel,
		VehicleNumber: cached.VehicleNumber,
		Rating:        rating,
		IsActive:      cached.IsActive,
		ActivatedAt:   cached.ActivatedAt,
	}, true
}
