// Package store owns the subscription collection: durable CRUD over one slot,
// with identifier uniqueness maintained across every write.
package store

import (
	"context"
	"errors"
	"fmt"

	"subtrackr/internal/core"
)

// DefaultKey is the well-known slot holding the collection.
const DefaultKey = "subtrackr_subscriptions"

var (
	ErrDuplicateID = errors.New("duplicate subscription id")
	ErrEmptyID     = errors.New("empty subscription id")
	ErrIDExhausted = errors.New("could not generate a unique subscription id")
)

// Store is the capability the presentation layer depends on. A missing record is
// reported through the boolean result; errors mean the medium itself failed.
type Store interface {
	// List returns the collection in insertion order.
	List(ctx context.Context) ([]core.Subscription, error)
	// Add assigns a fresh id, appends the record and persists the collection.
	Add(ctx context.Context, f core.Fields) (core.Subscription, error)
	// Update merges p over the record with the given id. ok is false when absent.
	Update(ctx context.Context, id string, p core.Patch) (sub core.Subscription, ok bool, err error)
	// Delete removes the record with the given id and reports whether one existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// Persister replaces the whole collection in one write.
type Persister interface {
	Persist(ctx context.Context, subs []core.Subscription) error
}

// CheckUnique verifies every id in subs is non-empty and distinct.
func CheckUnique(subs []core.Subscription) error {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if s.ID == "" {
			return ErrEmptyID
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
