package tests

import (
	"context"
	"errors"
	"testing"

	"ridenow/internal/domain"
	"ridenow/internal/service"
)

// ──────────────────────────────────────────────
// ACCOUNT AND DRIVER REGISTRATION
// ──────────────────────────────────────────────

func newUserService(f *fixture) *service.UserService {
	return service.NewUserService(f.transactor, f.users)
}

func newDriverService(f *fixture) *service.DriverService {
	return service.NewDriverService(f.drivers, nil)
}

func TestUserRegister_CreatesUserAndWallet(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newUserService(f)

	user, err := svc.Register(context.Background(), service.RegisterUserRequest{
		Email:     "  Asha@Example.COM ",
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "asha@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}

	wallet, err := f.wallets.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("wallet not created: %v", err)
	}
	if !wallet.Balance.IsZero() {
		t.Errorf("expected zero opening balance, got %s", wallet.Balance)
	}
}

func TestUserRegister_RejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterUserRequest{Email: "dup@test.local", Role: domain.RoleRider}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterUserRequest{Email: "DUP@test.local", Role: domain.RoleDriver}); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRegister_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterUserRequest{Email: "  ", Role: domain.RoleRider}); !errors.Is(err, service.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterUserRequest{Email: "x@test.local", Role: "admin"}); !errors.Is(err, service.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDriverRegister_StartsInactive(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newDriverService(f)

	driver, err := svc.Register(context.Background(), service.RegisterDriverRequest{
		UserID:        "duser-1",
		VehicleModel:  "  Swift Dzire ",
		VehicleNumber: "ka01ab1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.IsActive {
		t.Error("expected new driver to start inactive")
	}
	if driver.VehicleModel != "Swift Dzire" {
		t.Errorf("expected trimmed model, got %q", driver.VehicleModel)
	}
	if driver.VehicleNumber != "KA01AB1234" {
		t.Errorf("expected uppercased number, got %q", driver.VehicleNumber)
	}
	if driver.Rating.StringFixed(2) != "5.00" {
		t.Errorf("expected default rating 5.00, got %s", driver.Rating.StringFixed(2))
	}
}

func TestDriverRegister_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newDriverService(f)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "", VehicleModel: "Swift", VehicleNumber: "KA01AB1234"}); !errors.Is(err, service.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "u", VehicleModel: "X", VehicleNumber: "KA01AB1234"}); !errors.Is(err, service.ErrInvalidVehicleModel) {
		t.Errorf("expected ErrInvalidVehicleModel, got %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "u", VehicleModel: "Swift", VehicleNumber: "K1"}); !errors.Is(err, service.ErrInvalidVehicleNumber) {
		t.Errorf("expected ErrInvalidVehicleNumber, got %v", err)
	}
}

func TestDriverRegister_RejectsSecondProfile(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newDriverService(f)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "duser-1", VehicleModel: "Swift", VehicleNumber: "KA01AB1234"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "duser-1", VehicleModel: "Innova", VehicleNumber: "KA02CD5678"}); !errors.Is(err, service.ErrDriverAlreadyRegistered) {
		t.Fatalf("expected ErrDriverAlreadyRegistered, got %v", err)
	}
}

func TestDriverToggleActive_StampsActivation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := newDriverService(f)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterDriverRequest{UserID: "duser-1", VehicleModel: "Swift", VehicleNumber: "KA01AB1234"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	driver, err := svc.ToggleActive(ctx, "duser-1", true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !driver.IsActive {
		t.Error("expected active")
	}
	if driver.ActivatedAt.IsZero() {
		t.Error("expected activatedAt to be stamped")
	}

	activatedAt := driver.ActivatedAt
	driver, err = svc.ToggleActive(ctx, "duser-1", false)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if driver.IsActive {
		t.Error("expected inactive")
	}
	// Deactivation preserves the last activation time.
	if !driver.ActivatedAt.Equal(activatedAt) {
		t.Errorf("activatedAt changed on deactivation: %v vs %v", driver.ActivatedAt, activatedAt)
	}
}
