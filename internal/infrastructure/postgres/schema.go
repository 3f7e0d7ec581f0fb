package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL,
		secret_hash TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS credentials_email_key ON credentials (lower(email))`,
	`CREATE TABLE IF NOT EXISTS staff (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		last_name       TEXT NOT NULL,
		document_number TEXT NOT NULL,
		role            TEXT NOT NULL,
		email           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		sale_price     NUMERIC(14,2) NOT NULL DEFAULT 0,
		quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`,
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
