package core

import (
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestParseRenewalDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{" 2025-12-31 ", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-01T22:30:00+02:00", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2025-02-30", time.Time{}, false},
		{"15/01/2025", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for i, tc := range cases {
		got, err := ParseRenewalDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want) {
				t.Fatalf("case %d %q: expected %v, got %v (err=%v)", i, tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("case %d %q: expected error", i, tc.in)
		}
	}
}

func TestParseBillingCycle(t *testing.T) {
	if bc, err := ParseBillingCycle(" Yearly "); err != nil || bc != Yearly {
		t.Fatalf("expected yearly, got %q (err=%v)", bc, err)
	}
	if _, err := ParseBillingCycle("weekly"); err != ErrInvalidCycle {
		t.Fatalf("expected ErrInvalidCycle, got %v", err)
	}
}

func TestFieldsValidate(t *testing.T) {
	good := Fields{
		Name:         "Netflix",
		Cost:         15.99,
		BillingCycle: Monthly,
		RenewalDate:  "2025-01-15",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(f *Fields)
		want   error
	}{
		{"blank name", func(f *Fields) { f.Name = "   " }, ErrEmptyName},
		{"long name", func(f *Fields) { f.Name = strings.Repeat("x", 201) }, ErrNameTooLong},
		{"zero cost", func(f *Fields) { f.Cost = 0 }, ErrInvalidCost},
		{"negative cost", func(f *Fields) { f.Cost = -3 }, ErrInvalidCost},
		{"unknown cycle", func(f *Fields) { f.BillingCycle = "weekly" }, ErrInvalidCycle},
		{"bad date", func(f *Fields) { f.RenewalDate = "soon" }, ErrInvalidRenewalDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := good
			tt.mutate(&f)
			if err := f.Validate(); err != tt.want {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPatchApplyKeepsIDAndUnsetFields(t *testing.T) {
	orig := Subscription{
		ID:           "abc",
		Name:         "Spotify",
		Cost:         9.99,
		BillingCycle: Monthly,
		RenewalDate:  "2025-02-01",
		Category:     "Music",
		Notes:        "family plan",
	}
	cost := 10.99
	got := Patch{Cost: &cost, Notes: strPtr("")}.Apply(orig)

	want := orig
	want.Cost = 10.99
	want.Notes = ""
	if got != want {
		t.Fatalf("Apply() = %+v, want %+v", got, want)
	}
	if !(Patch{}).IsEmpty() {
		t.Fatal("zero patch should be empty")
	}
	if (Patch{Name: strPtr("x")}).IsEmpty() {
		t.Fatal("patch with a name should not be empty")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	f := Fields{Name: "iCloud", Cost: 2.99, BillingCycle: Monthly, RenewalDate: "2025-05-05", Category: "Storage"}
	s := f.WithID("id-1")
	if s.ID != "id-1" || s.Fields() != f {
		t.Fatalf("unexpected conversion: %+v", s)
	}
	if err := (Subscription{Name: "x", Cost: 1, BillingCycle: Monthly, RenewalDate: "2025-01-01"}).Validate(); err == nil {
		t.Fatal("expected error for empty id")
	}
}
