package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/store"
)

const (
	getQuery    = `SELECT value FROM records WHERE key = $1`
	upsertQuery = `INSERT INTO records (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteQuery = `DELETE FROM records WHERE key = $1`
	keysQuery   = `SELECT key FROM records ORDER BY key`
)

type KV struct {
	db *sqlx.DB
}

var _ store.KV = (*KV)(nil)

func NewKV(db *sqlx.DB) *KV {
	return &KV{db: db}
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := kv.db.GetContext(ctx, &value, getQuery, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "selecting record")
	}
	return value, nil
}

func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := kv.db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return errors.Wrap(err, "upserting record")
	}
	return nil
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	res, err := kv.db.ExecContext(ctx, deleteQuery, key)
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if n == 0 {
		return store.ErrKeyNotFound
	}
	return nil
}

func (kv *KV) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	if err := kv.db.SelectContext(ctx, &keys, keysQuery); err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	return keys, nil
}

func (kv *KV) Close() error {
	return kv.db.Close()
}
