package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"subtrackr/internal/core"
	"subtrackr/internal/kv"
	applog "subtrackr/internal/log"
)

const maxIDAttempts = 8

// IDFunc produces candidate identifiers for new records.
type IDFunc func() (string, error)

// NewID returns a UUIDv7: a millisecond timestamp followed by random bits.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// BlobStore keeps the collection as one JSON array under a single slot key.
// Every mutation rewrites the whole array.
type BlobStore struct {
	mu     sync.Mutex
	slot   kv.Slot
	key    string
	newID  IDFunc
	logger *applog.Logger
}

type Option func(*BlobStore)

func WithLogger(l *applog.Logger) Option {
	return func(s *BlobStore) {
		if l != nil {
			s.logger = l.WithComponent(applog.ComponentStore)
		}
	}
}

func WithIDFunc(fn IDFunc) Option {
	return func(s *BlobStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns a store over slot. An empty key selects DefaultKey.
func New(slot kv.Slot, key string, opts ...Option) *BlobStore {
	if key == "" {
		key = DefaultKey
	}
	s := &BlobStore{
		slot:   slot,
		key:    key,
		newID:  NewID,
		logger: applog.Nop().WithComponent(applog.ComponentStore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ Store     = (*BlobStore)(nil)
	_ Persister = (*BlobStore)(nil)
)

// Key returns the slot key the collection lives under.
func (s *BlobStore) Key() string {
	return s.key
}

// log prefers the invocation logger carried by ctx so records share its attributes.
func (s *BlobStore) log(ctx context.Context) *applog.Logger {
	return applog.FromContextOr(ctx, s.logger)
}

// snapshot is one read of the slot. corrupt holds the raw bytes when they did not decode.
type snapshot struct {
	subs    []core.Subscription
	corrupt []byte
}

func (s *BlobStore) load(ctx context.Context) (snapshot, error) {
	data, err := s.slot.Load(ctx, s.key)
	if errors.Is(err, kv.ErrUnavailable) {
		s.log(ctx).DebugContext(ctx, "Storage unavailable, reading empty collection", applog.FieldKey, s.key)
		return snapshot{}, nil
	}
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "Failed to load collection",
			applog.FieldKey, s.key,
			applog.FieldErrorType, applog.ErrorTypeStorage,
			applog.FieldError, err)
		return snapshot{}, fmt.Errorf("load collection: %w", err)
	}
	if len(data) == 0 {
		return snapshot{}, nil
	}

	var subs []core.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		s.log(ctx).WarnContext(ctx, "Stored collection is not valid JSON, treating as empty",
			applog.FieldKey, s.key,
			applog.FieldBytes, len(data),
			applog.FieldErrorType, applog.ErrorTypeCorrupt,
			applog.FieldError, err)
		return snapshot{corrupt: data}, nil
	}
	return snapshot{subs: subs}, nil
}

func (s *BlobStore) save(ctx context.Context, subs []core.Subscription, corrupt []byte) error {
	if corrupt != nil {
		backupKey := s.key + ".corrupt"
		if err := s.write(ctx, backupKey, corrupt); err != nil {
			return fmt.Errorf("back up corrupt collection: %w", err)
		}
		s.log(ctx).WarnContext(ctx, "Corrupt collection backed up before overwrite",
			applog.FieldKey, backupKey,
			applog.FieldBytes, len(corrupt))
	}

	if subs == nil {
		subs = []core.Subscription{}
	}
	data, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return s.write(ctx, s.key, data)
}

func (s *BlobStore) write(ctx context.Context, key string, data []byte) error {
	err := s.slot.Save(ctx, key, data)
	if errors.Is(err, kv.ErrUnavailable) {
		s.log(ctx).DebugContext(ctx, "Storage unavailable, write dropped", applog.FieldKey, key)
		return nil
	}
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "Failed to save collection",
			applog.FieldKey, key,
			applog.FieldErrorType, applog.ErrorTypeStorage,
			applog.FieldError, err)
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *BlobStore) uniqueID(existing []core.Subscription) (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if id == "" {
			continue
		}
		taken := slices.ContainsFunc(existing, func(sub core.Subscription) bool { return sub.ID == id })
		if !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func indexOf(subs []core.Subscription, id string) int {
	return slices.IndexFunc(subs, func(sub core.Subscription) bool { return sub.ID == id })
}

// List implements Store. Missing, unavailable and corrupt storage all read as empty.
func (s *BlobStore) List(ctx context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.subs == nil {
		return []core.Subscription{}, nil
	}
	return snap.subs, nil
}

// Add implements Store.
func (s *BlobStore) Add(ctx context.Context, f core.Fields) (core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return core.Subscription{}, err
	}

	id, err := s.uniqueID(snap.subs)
	if err != nil {
		return core.Subscription{}, err
	}
	sub := f.WithID(id)
	subs := append(snap.subs, sub)

	if err := s.save(ctx, subs, snap.corrupt); err != nil {
		return core.Subscription{}, err
	}

	s.log(ctx).InfoContext(ctx, "Subscription added",
		applog.NewFields().WithOperation(applog.OpAdd).WithSubscription(sub).ToSlice()...)
	return sub, nil
}

// Update implements Store. An unknown id writes nothing.
func (s *BlobStore) Update(ctx context.Context, id string, p core.Patch) (core.Subscription, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return core.Subscription{}, false, err
	}

	i := indexOf(snap.subs, id)
	if i < 0 {
		s.log(ctx).DebugContext(ctx, "Subscription not found",
			applog.FieldOperation, applog.OpUpdate,
			applog.FieldErrorType, applog.ErrorTypeNotFound,
			applog.FieldSubscriptionID, id)
		return core.Subscription{}, false, nil
	}

	updated := p.Apply(snap.subs[i])
	snap.subs[i] = updated

	if err := s.save(ctx, snap.subs, nil); err != nil {
		return core.Subscription{}, false, err
	}

	s.log(ctx).InfoContext(ctx, "Subscription updated",
		applog.NewFields().WithOperation(applog.OpUpdate).WithSubscription(updated).ToSlice()...)
	return updated, true, nil
}

// Delete implements Store. The collection is written only when a record was removed.
func (s *BlobStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	remaining := slices.DeleteFunc(snap.subs, func(sub core.Subscription) bool { return sub.ID == id })
	if len(remaining) == len(snap.subs) {
		s.log(ctx).DebugContext(ctx, "Subscription not found",
			applog.FieldOperation, applog.OpDelete,
			applog.FieldErrorType, applog.ErrorTypeNotFound,
			applog.FieldSubscriptionID, id)
		return false, nil
	}
	if err := s.save(ctx, remaining, nil); err != nil {
		return false, err
	}

	s.log(ctx).InfoContext(ctx, "Subscription deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldSubscriptionID, id)
	return true, nil
}

// Persist implements Persister. The collection replaces whatever the slot held;
// a corrupt blob is backed up first, as on Add.
func (s *BlobStore) Persist(ctx context.Context, subs []core.Subscription) error {
	if err := CheckUnique(subs); err != nil {
		s.log(ctx).InfoContext(ctx, "Rejected collection",
			applog.FieldOperation, applog.OpPersist,
			applog.FieldErrorType, applog.ErrorTypeConflict,
			applog.FieldError, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := s.save(ctx, slices.Clone(subs), snap.corrupt); err != nil {
		return err
	}

	s.log(ctx).InfoContext(ctx, "Collection persisted",
		applog.FieldOperation, applog.OpPersist,
		applog.FieldCount, len(subs))
	return nil
}
