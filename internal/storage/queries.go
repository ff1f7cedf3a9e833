package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type KvSlot struct {
	Key       string
	Value     []byte
	UpdatedAt int64
}

const getSlot = `-- name: GetSlot :one
SELECT key, value, updated_at FROM kv_slots WHERE key = ?
`

func (q *Queries) GetSlot(ctx context.Context, key string) (KvSlot, error) {
	row := q.db.QueryRowContext(ctx, getSlot, key)
	var i KvSlot
	err := row.Scan(&i.Key, &i.Value, &i.UpdatedAt)
	return i, err
}

const upsertSlot = `-- name: UpsertSlot :exec
INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertSlotParams struct {
	Key       string
	Value     []byte
	UpdatedAt int64
}

func (q *Queries) UpsertSlot(ctx context.Context, arg UpsertSlotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSlot, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}

const listSlotKeys = `-- name: ListSlotKeys :many
SELECT key FROM kv_slots ORDER BY key
`

func (q *Queries) ListSlotKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listSlotKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
