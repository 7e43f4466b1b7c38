package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres keeps each collection blob in one row of kv_collections. Update
// takes a row lock for the read-modify-write cycle, which gives the same
// per-key serialization the file backend gets from its mutex.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.GetContext(ctx, &value, `SELECT value FROM kv_collections WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrUnavailable, key, err)
	}
	return value, nil
}

func (p *Postgres) Save(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_collections (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin update %s: %v", ErrUnavailable, key, err)
	}
	defer tx.Rollback()

	var old []byte
	err = tx.GetContext(ctx, &old, `SELECT value FROM kv_collections WHERE key = $1 FOR UPDATE`, key)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("%w: lock %s: %v", ErrUnavailable, key, err)
	}

	next, err := fn(old)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_collections (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, next); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
