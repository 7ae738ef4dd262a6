package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

type blob struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Blobs is a store backend keeping one row per key in the blobs table.
type Blobs struct {
	DB *sqlx.DB
}

func (b Blobs) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `
	SELECT
		key, value, updated_at
	FROM blobs
	WHERE key = $1`

	var row blob
	if err := sqlx.GetContext(ctx, b.DB, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("selecting blob[%s]: %w", key, err)
	}
	return []byte(row.Value), true, nil
}

// Put upserts every entry inside one SQL transaction.
func (b Blobs) Put(ctx context.Context, entries map[string][]byte) error {
	const q = `
	INSERT INTO blobs
		(key, value, updated_at)
	VALUES
		(:key, CAST(:value AS JSONB), :updated_at)
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at`

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	return Transaction(b.DB, func(tx sqlx.ExtContext) error {
		for _, k := range keys {
			row := blob{Key: k, Value: string(entries[k]), UpdatedAt: now}
			if _, err := sqlx.NamedExecContext(ctx, tx, q, row); err != nil {
				return fmt.Errorf("upserting blob[%s]: %w", k, err)
			}
		}
		return nil
	})
}
