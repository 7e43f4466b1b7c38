package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// RunMigrations creates the single table the Postgres kv backend needs.
// Safe to run on every startup.
func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS kv_collections (
    key TEXT PRIMARY KEY,
    value BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := db.ExecContext(context.Background(), schema)
	return err
}
