package domain

import "testing"

func TestRideStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from  RideStatus
		to    RideStatus
		legal bool
	}{
		{RideStatusSearching, RideStatusFound, true},
		{RideStatusFound, RideStatusOnWay, true},
		{RideStatusOnWay, RideStatusArrived, true},
		{RideStatusArrived, RideStatusCompleted, true},

		// Cancellation is legal from every non-terminal status.
		{RideStatusSearching, RideStatusCancelled, true},
		{RideStatusFound, RideStatusCancelled, true},
		{RideStatusOnWay, RideStatusCancelled, true},
		{RideStatusArrived, RideStatusCancelled, true},

		// No skipping forward.
		{RideStatusSearching, RideStatusOnWay, false},
		{RideStatusSearching, RideStatusArrived, false},
		{RideStatusSearching, RideStatusCompleted, false},
		{RideStatusFound, RideStatusArrived, false},
		{RideStatusFound, RideStatusCompleted, false},
		{RideStatusOnWay, RideStatusCompleted, false},

		// No moving backward.
		{RideStatusFound, RideStatusSearching, false},
		{RideStatusOnWay, RideStatusFound, false},
		{RideStatusArrived, RideStatusOnWay, false},

		// Terminal statuses are immutable.
		{RideStatusCompleted, RideStatusCancelled, false},
		{RideStatusCompleted, RideStatusSearching, false},
		{RideStatusCancelled, RideStatusCompleted, false},
		{RideStatusCancelled, RideStatusFound, false},

		// Self loops are not transitions.
		{RideStatusSearching, RideStatusSearching, false},
		{RideStatusFound, RideStatusFound, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		if got != tc.legal {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.legal, got)
		}
	}
}

func TestRideStatus_Terminal(t *testing.T) {
	t.Parallel()

	terminal := []RideStatus{RideStatusCompleted, RideStatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	live := []RideStatus{RideStatusSearching, RideStatusFound, RideStatusOnWay, RideStatusArrived}
	for _, s := range live {
		if s.Terminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestParseRideStatus(t *testing.T) {
	t.Parallel()

	if _, ok := ParseRideStatus("on-way"); !ok {
		t.Error("expected on-way to parse")
	}
	if _, ok := ParseRideStatus("onway"); ok {
		t.Error("expected onway to be rejected")
	}
	if _, ok := ParseRideStatus(""); ok {
		t.Error("expected empty status to be rejected")
	}
}
