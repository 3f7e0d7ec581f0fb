// Package sqlite almacén de registros embebido para desarrollo local y pruebas.
// Misma tabla por recurso que el adaptador de PostgreSQL; los precios se guardan como TEXT
// para no perder precisión decimal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL COLLATE NOCASE UNIQUE,
		secret_hash TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
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
		purchase_price TEXT NOT NULL DEFAULT '0',
		sale_price     TEXT NOT NULL DEFAULT '0',
		quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`,
}

// sq builder de squirrel con placeholders "?".
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" crea una base efímera.
// Se limita a una conexión: SQLite serializa las escrituras y una base en memoria
// solo existe dentro de su conexión.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "panel.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var e *sqlite.Error
	if errors.As(err, &e) {
		return e.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || e.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
