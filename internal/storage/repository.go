package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	applog "subtrackr/internal/log"
)

// SQLiteRepository implements kv.Slot on a single SQLite table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready",
		applog.FieldComponent, applog.ComponentStorage,
		"path", dbPath,
		"version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements kv.SlotReader
func (r *SQLiteRepository) Load(ctx context.Context, key string) ([]byte, error) {
	slot, err := r.queries.GetSlot(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return slot.Value, nil
}

// Save implements kv.SlotWriter
func (r *SQLiteRepository) Save(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	err := r.queries.UpsertSlot(ctx, UpsertSlotParams{
		Key:       key,
		Value:     value,
		UpdatedAt: r.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Slot saved to SQLite", "key", key, "bytes", len(value))
	return nil
}

// Keys returns every stored slot key in lexical order.
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.queries.ListSlotKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slot keys: %w", err)
	}
	return keys, nil
}
