// Package kv defines the durable key-value medium the subscription store writes to.
// Each key holds one opaque blob that is always replaced whole.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable reports that no persistence medium exists in this execution context.
// Callers degrade to empty reads and dropped writes instead of failing.
var ErrUnavailable = errors.New("storage unavailable")

// Ports for outbound adapters.
type (
	// SlotReader loads the blob stored under key. A missing key returns nil, nil.
	SlotReader interface {
		Load(ctx context.Context, key string) ([]byte, error)
	}

	// SlotWriter replaces the blob stored under key.
	SlotWriter interface {
		Save(ctx context.Context, key string, value []byte) error
	}

	Slot interface {
		SlotReader
		SlotWriter
	}
)

// Detached is a Slot with no medium behind it.
type Detached struct{}

func (Detached) Load(context.Context, string) ([]byte, error) { return nil, ErrUnavailable }

func (Detached) Save(context.Context, string, []byte) error { return ErrUnavailable }
