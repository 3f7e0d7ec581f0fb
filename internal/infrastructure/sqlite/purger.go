package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.StaffPurger = (*Purger)(nil)

// Purger borra registro de personal y credencial en una sola transacción.
type Purger struct {
	db *sql.DB
}

// NewPurger construye el purgador sobre db.
func NewPurger(db *sql.DB) *Purger {
	return &Purger{db: db}
}

// PurgeStaff borra el registro y la credencial de id. Devuelve domain.ErrNotFound si no existía ninguno.
func (p *Purger) PurgeStaff(ctx context.Context, id string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	for _, table := range []string{"staff", "credentials"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		affected += n
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
