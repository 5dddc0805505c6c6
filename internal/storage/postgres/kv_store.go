package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// KVStore keeps storage slots in a single postgres table
type KVStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ storage.Storage = (*KVStore)(nil)

// NewKVStore creates the kv_store table if missing and returns a Storage on top of it
func NewKVStore(ctx context.Context, db *sql.DB, logger *zap.Logger) (*KVStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("Failed to create kv_store table", zap.Error(err))
		return nil, err
	}

	return &KVStore{
		db:     db,
		logger: logger,
	}, nil
}

func (r *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get value", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return value, nil
}

func (r *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, key, value, time.Now())
	if err != nil {
		r.logger.Error("Failed to set value", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}
