package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtrackr/internal/core"
	"subtrackr/internal/kv/memory"
	"subtrackr/internal/store"
)

var serviceNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*SubscriptionService, *memory.Store) {
	t.Helper()
	slot := memory.New()
	svc := NewSubscriptionService(store.New(slot, ""), WithClock(func() time.Time { return serviceNow }))
	return svc, slot
}

func validFields() core.Fields {
	return core.Fields{
		Name:         "Netflix",
		Cost:         15.99,
		BillingCycle: core.Monthly,
		RenewalDate:  "2025-01-13",
		Category:     "Streaming",
	}
}

func TestSubscriptionService_CreateTrimsAndValidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	f := validFields()
	f.Name = "  Netflix  "
	f.Category = " Streaming "
	sub, err := svc.Create(ctx, f)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sub.ID == "" || sub.Name != "Netflix" || sub.Category != "Streaming" {
		t.Fatalf("unexpected record: %+v", sub)
	}

	bad := validFields()
	bad.Cost = 0
	if _, err := svc.Create(ctx, bad); !errors.Is(err, core.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(ov.Items) != 1 {
		t.Fatalf("rejected input must not be stored, got %d items", len(ov.Items))
	}
}

func TestSubscriptionService_Overview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Create(ctx, validFields()); err != nil {
		t.Fatal(err)
	}
	later := validFields()
	later.Name = "Adobe"
	later.Cost = 54.99
	later.BillingCycle = core.Yearly
	later.RenewalDate = "2025-03-01"
	if _, err := svc.Create(ctx, later); err != nil {
		t.Fatal(err)
	}

	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if !ov.AsOf.Equal(serviceNow) {
		t.Errorf("AsOf = %v, want %v", ov.AsOf, serviceNow)
	}
	if len(ov.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(ov.Items))
	}
	first := ov.Items[0]
	if !first.DateKnown || first.DaysUntil != 3 || !first.Upcoming {
		t.Errorf("first item = %+v, want 3 days upcoming", first)
	}
	if ov.Items[1].Upcoming {
		t.Errorf("second item should not be upcoming: %+v", ov.Items[1])
	}
	if ov.Summary.Count != 2 || len(ov.Summary.Upcoming) != 1 {
		t.Errorf("unexpected summary: %+v", ov.Summary)
	}
	if !approxEqual(ov.Summary.MonthlyTotal, 15.99+54.99/12) {
		t.Errorf("MonthlyTotal = %v", ov.Summary.MonthlyTotal)
	}
}

func TestSubscriptionService_OverviewEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(ov.Items) != 0 || ov.Summary.Count != 0 || ov.Summary.MonthlyTotal != 0 || ov.Summary.AverageMonthly != 0 {
		t.Fatalf("expected empty overview, got %+v", ov)
	}
}

func TestSubscriptionService_Edit(t *testing.T) {
	ctx := context.Background()
	svc, slot := newTestService(t)

	sub, err := svc.Create(ctx, validFields())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("merges fields", func(t *testing.T) {
		cost := 17.99
		got, ok, err := svc.Edit(ctx, sub.ID, core.Patch{Cost: &cost})
		if err != nil || !ok {
			t.Fatalf("Edit = ok %v err %v", ok, err)
		}
		if got.ID != sub.ID || got.Cost != 17.99 || got.Name != sub.Name {
			t.Fatalf("unexpected record: %+v", got)
		}
	})

	t.Run("rejects invalid merge", func(t *testing.T) {
		before, _ := slot.Load(ctx, store.DefaultKey)
		blank := "   "
		_, ok, err := svc.Edit(ctx, sub.ID, core.Patch{Name: &blank})
		if !ok || !errors.Is(err, core.ErrEmptyName) {
			t.Fatalf("expected ErrEmptyName on existing record, got ok=%v err=%v", ok, err)
		}
		after, _ := slot.Load(ctx, store.DefaultKey)
		if string(before) != string(after) {
			t.Fatal("rejected update must not write")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "x"
		_, ok, err := svc.Edit(ctx, "missing", core.Patch{Name: &name})
		if err != nil || ok {
			t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		got, ok, err := svc.Edit(ctx, sub.ID, core.Patch{})
		if err != nil || !ok || got.ID != sub.ID {
			t.Fatalf("empty patch should return the record, got %+v ok=%v err=%v", got, ok, err)
		}
	})
}

func TestSubscriptionService_Remove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	sub, err := svc.Create(ctx, validFields())
	if err != nil {
		t.Fatal(err)
	}
	if removed, err := svc.Remove(ctx, sub.ID); err != nil || !removed {
		t.Fatalf("first Remove = %v, %v", removed, err)
	}
	if removed, err := svc.Remove(ctx, sub.ID); err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}
	if _, ok, _ := svc.Get(ctx, sub.ID); ok {
		t.Fatal("record still present")
	}
}

func TestSubscriptionService_Import(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	subs := []core.Subscription{
		validFields().WithID("a"),
		validFields().WithID("b"),
	}
	if err := svc.Import(ctx, subs); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ov.Items) != 2 || ov.Items[0].Subscription.ID != "a" || ov.Items[1].Subscription.ID != "b" {
		t.Fatalf("unexpected items after import: %+v", ov.Items)
	}

	dup := []core.Subscription{validFields().WithID("a"), validFields().WithID("a")}
	if err := svc.Import(ctx, dup); !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	invalid := []core.Subscription{{ID: "c", Name: "x", Cost: -1, BillingCycle: core.Monthly, RenewalDate: "2025-01-01"}}
	if err := svc.Import(ctx, invalid); !errors.Is(err, core.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}
}

type listOnlyStore struct{ store.Store }

func TestSubscriptionService_ImportUnsupported(t *testing.T) {
	svc := NewSubscriptionService(listOnlyStore{store.New(memory.New(), "")})
	if err := svc.Import(context.Background(), nil); !errors.Is(err, ErrImportUnsupported) {
		t.Fatalf("expected ErrImportUnsupported, got %v", err)
	}
}

func TestSubscriptionService_Upcoming(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, date := range []string{"2025-01-20", "2025-01-12", "2025-01-08"} {
		f := validFields()
		f.RenewalDate = date
		if _, err := svc.Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Subscription.RenewalDate != "2025-01-08" || got[1].Subscription.RenewalDate != "2025-01-12" {
		t.Fatalf("unexpected upcoming: %+v", got)
	}
}

func TestSubscriptionService_CustomRenewalWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewSubscriptionService(store.New(memory.New(), ""),
		WithClock(func() time.Time { return serviceNow }),
		WithRenewalChecker(RenewalChecker{WindowDays: 2}))

	for _, date := range []string{"2025-01-11", "2025-01-13"} {
		f := validFields()
		f.RenewalDate = date
		if _, err := svc.Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Subscription.RenewalDate != "2025-01-11" || got[0].DaysUntil != 1 {
		t.Fatalf("unexpected upcoming with a 2 day window: %+v", got)
	}
}
