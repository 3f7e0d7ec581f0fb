package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.StaffPurger = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con un Querier atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PurgeStaff elimina el registro de personal y la credencial del mismo ID de forma atómica.
// Si ninguno existe devuelve ErrNotFound; si existe solo uno (alta a medias) se elimina igual.
func (r *TxRunner) PurgeStaff(ctx context.Context, id string) error {
	return r.Run(ctx, func(q Querier) error {
		staffTag, err := q.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete staff: %w", err)
		}
		credTag, err := q.Exec(ctx, `DELETE FROM credentials WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		if staffTag.RowsAffected() == 0 && credTag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
