package booking

import (
	"testing"
	"time"
)

func TestWithinHours(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"opening slot", at(12, 0), true},
		{"mid afternoon", at(15, 30), true},
		{"last fitting slot", at(20, 0), true},
		{"one minute too late", at(20, 1), false},
		{"before opening", at(11, 59), false},
		{"way past closing", at(22, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.WithinHours(tc.start, tc.start.Add(r.Duration))
			if got != tc.want {
				t.Fatalf("WithinHours(%v) = %v, want %v", tc.start, got, tc.want)
			}
		})
	}
}

func TestInstantWithinHours(t *testing.T) {
	r := DefaultRules()

	if !r.InstantWithinHours(at(12, 0)) {
		t.Fatal("opening instant should be inside the window")
	}
	if r.InstantWithinHours(at(22, 0)) {
		t.Fatal("closing instant is outside the half-open window")
	}
	if r.InstantWithinHours(at(11, 59)) {
		t.Fatal("before opening should be outside")
	}
	if !r.InstantWithinHours(at(21, 59)) {
		t.Fatal("one minute before closing should be inside")
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		aStart, bStart time.Time
		want           bool
	}{
		{"identical", at(14, 0), at(14, 0), true},
		{"partial", at(14, 0), at(15, 0), true},
		{"contained", at(14, 0), at(14, 30), true},
		{"back to back", at(14, 0), at(16, 0), false},
		{"disjoint", at(12, 0), at(18, 0), false},
	}
	d := 2 * time.Hour
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(tc.aStart, tc.aStart.Add(d), tc.bStart, tc.bStart.Add(d))
			if got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// symmetry
			if Overlaps(tc.bStart, tc.bStart.Add(d), tc.aStart, tc.aStart.Add(d)) != got {
				t.Fatal("Overlaps is not symmetric")
			}
		})
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}

	bad := DefaultRules()
	bad.OpenMinute, bad.CloseMinute = bad.CloseMinute, bad.OpenMinute
	if err := bad.Validate(); err == nil {
		t.Fatal("inverted window should not validate")
	}

	bad = DefaultRules()
	bad.Duration = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero duration should not validate")
	}
}
