package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"subtrackr/internal/core"
	applog "subtrackr/internal/log"
	"subtrackr/internal/store"
)

// ErrImportUnsupported is returned when the backing store cannot replace the collection.
var ErrImportUnsupported = errors.New("store does not support bulk replace")

// Item is one row of the overview.
type Item struct {
	Subscription core.Subscription
	DaysUntil    int
	DateKnown    bool
	Upcoming     bool
}

// Overview is the state a caller renders after each operation.
type Overview struct {
	Items   []Item
	Summary core.Summary
	AsOf    time.Time
}

// SubscriptionService orchestrates subscription operations over a store
type SubscriptionService struct {
	store   store.Store
	checker RenewalChecker
	now     func() time.Time
	logger  *applog.Logger
}

type ServiceOption func(*SubscriptionService)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *SubscriptionService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRenewalChecker(c RenewalChecker) ServiceOption {
	return func(s *SubscriptionService) {
		s.checker = c
	}
}

func WithServiceLogger(l *applog.Logger) ServiceOption {
	return func(s *SubscriptionService) {
		if l != nil {
			s.logger = l.WithComponent(applog.ComponentService)
		}
	}
}

func NewSubscriptionService(st store.Store, opts ...ServiceOption) *SubscriptionService {
	s := &SubscriptionService{
		store:   st,
		checker: NewRenewalChecker(),
		now:     time.Now,
		logger:  applog.Nop().WithComponent(applog.ComponentService),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SubscriptionService) log(ctx context.Context) *applog.Logger {
	return applog.FromContextOr(ctx, s.logger)
}

// Overview lists the collection and derives urgency and totals as of now.
func (s *SubscriptionService) Overview(ctx context.Context) (Overview, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list subscriptions: %w", err)
	}
	now := s.now()
	items := make([]Item, 0, len(subs))
	for _, sub := range subs {
		item := Item{Subscription: sub}
		days, upcoming, err := s.checker.Check(sub, now)
		if err == nil {
			item.DaysUntil = days
			item.DateKnown = true
			item.Upcoming = upcoming
		} else {
			s.log(ctx).DebugContext(ctx, "Unparseable renewal date",
				applog.FieldOperation, applog.OpList,
				applog.FieldSubscriptionID, sub.ID,
				applog.FieldRenewalDate, sub.RenewalDate)
		}
		items = append(items, item)
	}
	summary := Summarize(subs, now, s.checker)
	s.log(ctx).DebugContext(ctx, "Overview computed",
		applog.FieldOperation, applog.OpSummary,
		applog.FieldCount, summary.Count,
		"upcoming", len(summary.Upcoming))
	return Overview{
		Items:   items,
		Summary: summary,
		AsOf:    now,
	}, nil
}

// Upcoming returns renewals inside the window, soonest first.
func (s *SubscriptionService) Upcoming(ctx context.Context) ([]core.Renewal, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return Summarize(subs, s.now(), s.checker).Upcoming, nil
}

// Create validates f and adds it to the store.
func (s *SubscriptionService) Create(ctx context.Context, f core.Fields) (core.Subscription, error) {
	f = normalizeFields(f)
	if err := f.Validate(); err != nil {
		s.log(ctx).InfoContext(ctx, "Rejected subscription",
			applog.NewFields().
				WithOperation(applog.OpAdd).
				WithErrorType(applog.ErrorTypeValidation).
				WithError(err).
				ToSlice()...)
		return core.Subscription{}, err
	}
	sub, err := s.store.Add(ctx, f)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("add subscription: %w", err)
	}
	return sub, nil
}

// Edit merges p over the record with the given id and validates the result
// before writing. ok is false when no such record exists.
func (s *SubscriptionService) Edit(ctx context.Context, id string, p core.Patch) (core.Subscription, bool, error) {
	current, ok, err := s.find(ctx, id)
	if err != nil || !ok {
		return core.Subscription{}, ok, err
	}
	p = normalizePatch(p)
	if p.IsEmpty() {
		return current, true, nil
	}
	if err := p.Apply(current).Fields().Validate(); err != nil {
		s.log(ctx).InfoContext(ctx, "Rejected update",
			applog.NewFields().
				WithOperation(applog.OpUpdate).
				WithErrorType(applog.ErrorTypeValidation).
				WithError(err).
				WithSubscription(current).
				ToSlice()...)
		return core.Subscription{}, true, err
	}
	sub, ok, err := s.store.Update(ctx, id, p)
	if err != nil {
		return core.Subscription{}, false, fmt.Errorf("update subscription: %w", err)
	}
	return sub, ok, nil
}

// Get returns the record with the given id.
func (s *SubscriptionService) Get(ctx context.Context, id string) (core.Subscription, bool, error) {
	return s.find(ctx, id)
}

// Remove deletes the record with the given id and reports whether it existed.
func (s *SubscriptionService) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	return removed, nil
}

// Import replaces the whole collection. Every record must be valid and ids must be unique.
func (s *SubscriptionService) Import(ctx context.Context, subs []core.Subscription) error {
	p, ok := s.store.(store.Persister)
	if !ok {
		return ErrImportUnsupported
	}
	for i, sub := range subs {
		if err := sub.Validate(); err != nil {
			s.log(ctx).InfoContext(ctx, "Rejected import",
				applog.NewFields().
					WithOperation(applog.OpPersist).
					WithErrorType(applog.ErrorTypeValidation).
					WithError(err).
					ToSlice()...)
			return fmt.Errorf("record %d (%q): %w", i, sub.ID, err)
		}
	}
	if err := p.Persist(ctx, subs); err != nil {
		return fmt.Errorf("persist subscriptions: %w", err)
	}
	return nil
}

func (s *SubscriptionService) find(ctx context.Context, id string) (core.Subscription, bool, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return core.Subscription{}, false, fmt.Errorf("list subscriptions: %w", err)
	}
	for _, sub := range subs {
		if sub.ID == id {
			return sub, true, nil
		}
	}
	return core.Subscription{}, false, nil
}

func normalizeFields(f core.Fields) core.Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.RenewalDate = strings.TrimSpace(f.RenewalDate)
	f.Category = strings.TrimSpace(f.Category)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func normalizePatch(p core.Patch) core.Patch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	p.Name = trim(p.Name)
	p.RenewalDate = trim(p.RenewalDate)
	p.Category = trim(p.Category)
	p.Notes = trim(p.Notes)
	return p
}
