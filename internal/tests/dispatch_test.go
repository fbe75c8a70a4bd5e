package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ridenow/internal/domain"
	"ridenow/internal/service"
)

// ──────────────────────────────────────────────
// DISPATCH
// ──────────────────────────────────────────────

func TestDispatch_NoDriversAvailable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	_, err := f.dispatchService.RequestAssignment(ctx, "ride-1")
	if !errors.Is(err, service.ErrNoDriversAvailable) {
		t.Fatalf("expected ErrNoDriversAvailable, got %v", err)
	}

	// The ride stays searching and can be retried.
	stored := f.rides.GetRide("ride-1")
	if stored.Status != domain.RideStatusSearching {
		t.Errorf("expected ride to stay searching, got %s", stored.Status)
	}
}

func TestDispatch_SkipsInactiveDrivers(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")
	f.addDriver("duser-1", "driver-1", "wallet-d1", false, time.Time{})
	f.addDriver("duser-2", "driver-2", "wallet-d2", true, time.Now())
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	result, err := f.dispatchService.RequestAssignment(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DriverID != "duser-2" {
		t.Errorf("expected duser-2, got %s", result.DriverID)
	}
	if result.Ride.Status != domain.RideStatusFound {
		t.Errorf("expected found, got %s", result.Ride.Status)
	}
}

func TestDispatch_PicksEarliestActivatedDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")

	base := time.Now().Add(-time.Hour)
	f.addDriver("duser-late", "driver-c", "wallet-d1", true, base.Add(30*time.Minute))
	f.addDriver("duser-early", "driver-b", "wallet-d2", true, base)
	f.addDriver("duser-mid", "driver-a", "wallet-d3", true, base.Add(10*time.Minute))
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	result, err := f.dispatchService.RequestAssignment(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DriverID != "duser-early" {
		t.Errorf("expected earliest-activated duser-early, got %s", result.DriverID)
	}
}

func TestDispatch_TieBreaksOnDriverID(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")

	same := time.Now().Add(-time.Hour)
	f.addDriver("duser-2", "driver-b", "wallet-d1", true, same)
	f.addDriver("duser-1", "driver-a", "wallet-d2", true, same)
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	result, err := f.dispatchService.RequestAssignment(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DriverID != "duser-1" {
		t.Errorf("expected driver-a's user duser-1, got %s", result.DriverID)
	}
}

func TestDispatch_SkipsLockedDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")

	base := time.Now().Add(-time.Hour)
	f.addDriver("duser-1", "driver-a", "wallet-d1", true, base)
	f.addDriver("duser-2", "driver-b", "wallet-d2", true, base.Add(time.Minute))
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	// Another dispatch holds the preferred driver's claim.
	f.lockStore.LockDriver("driver-a", time.Minute)

	result, err := f.dispatchService.RequestAssignment(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DriverID != "duser-2" {
		t.Errorf("expected fallback to duser-2, got %s", result.DriverID)
	}
}

func TestDispatch_BusyDriverExcluded(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")
	f.addRider("rider-2", "wallet-r2", "2500")
	f.addDriver("duser-1", "driver-a", "wallet-d1", true, time.Now().Add(-time.Hour))

	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusOnWay, "duser-1")
	f.addRide("ride-2", "rider-2", "100.00", domain.RideStatusSearching, "")

	if _, err := f.dispatchService.RequestAssignment(ctx, "ride-2"); !errors.Is(err, service.ErrNoDriversAvailable) {
		t.Fatalf("expected ErrNoDriversAvailable, got %v", err)
	}

	// Once the first ride reaches a terminal status the driver is free again.
	if _, err := f.rideService.Transition(ctx, "ride-1", domain.RideStatusCancelled, "test"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	result, err := f.dispatchService.RequestAssignment(ctx, "ride-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DriverID != "duser-1" {
		t.Errorf("expected duser-1, got %s", result.DriverID)
	}
}

func TestDispatch_NonSearchingRideRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")
	f.addDriver("duser-1", "driver-a", "wallet-d1", true, time.Now())
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusFound, "duser-1")

	if _, err := f.dispatchService.RequestAssignment(ctx, "ride-1"); !errors.Is(err, service.ErrIllegalAssignment) {
		t.Fatalf("expected ErrIllegalAssignment, got %v", err)
	}
}

func TestDispatch_ConcurrentRidesOneDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addDriver("duser-1", "driver-a", "wallet-d1", true, time.Now().Add(-time.Hour))

	const riders = 8
	rideIDs := make([]string, riders)
	for i := 0; i < riders; i++ {
		riderID := "rider-" + string(rune('a'+i))
		f.addRider(riderID, "wallet-"+riderID, "2500")
		rideIDs[i] = "ride-" + string(rune('a'+i))
		f.addRide(rideIDs[i], riderID, "100.00", domain.RideStatusSearching, "")
	}

	var successes int32
	var wg sync.WaitGroup
	for _, rideID := range rideIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.dispatchService.RequestAssignment(ctx, id); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}(rideID)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful assignment, got %d", successes)
	}

	// Exactly one ride carries the driver.
	assigned := 0
	for _, rideID := range rideIDs {
		ride := f.rides.GetRide(rideID)
		if ride.DriverID == "duser-1" {
			assigned++
			if ride.Status != domain.RideStatusFound {
				t.Errorf("assigned ride %s has status %s", rideID, ride.Status)
			}
		} else if ride.Status != domain.RideStatusSearching {
			t.Errorf("unassigned ride %s has status %s", rideID, ride.Status)
		}
	}
	if assigned != 1 {
		t.Fatalf("expected driver on exactly 1 ride, got %d", assigned)
	}
}

func TestDispatch_ConcurrentSameRide(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addRider("rider-1", "wallet-r1", "2500")
	f.addDriver("duser-1", "driver-a", "wallet-d1", true, time.Now())
	f.addRide("ride-1", "rider-1", "100.00", domain.RideStatusSearching, "")

	var successes int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.dispatchService.RequestAssignment(ctx, "ride-1"); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 success, got %d", successes)
	}

	stored := f.rides.GetRide("ride-1")
	if stored.DriverID != "duser-1" || stored.Status != domain.RideStatusFound {
		t.Errorf("unexpected ride state: driver=%q status=%s", stored.DriverID, stored.Status)
	}
}
