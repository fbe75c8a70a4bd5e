package domain

import "testing"

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"100", "100.00", true},
		{"99.99", "99.99", true},
		{"0.005", "0.01", true}, // half-up
		{"0.004", "0.00", false},
		{" 42.5 ", "42.50", true},
		{"0", "", false},
		{"0.00", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"1e3", "", false},
		{"1E3", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"12.", "", false},
		{".5", "", false},
		{"", "", false},
		{"abc", "", false},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("%q: unexpected error: %v", tc.in, err)
				continue
			}
			if got.StringFixed(2) != tc.want {
				t.Errorf("%q: expected %s, got %s", tc.in, tc.want, got.StringFixed(2))
			}
		} else if err == nil {
			t.Errorf("%q: expected error, got %s", tc.in, got)
		}
	}
}

func TestParseDistance(t *testing.T) {
	t.Parallel()

	got, err := ParseDistance("15.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "15.20" {
		t.Errorf("expected 15.20, got %s", got.StringFixed(2))
	}

	// Scientific notation is rejected even though it denotes the same value.
	rejected := []string{"1.52e1", "1.52E1", "1e3", "-15.2", "0", "15,2", "15.2km"}
	for _, in := range rejected {
		if _, err := ParseDistance(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}
