package postgres

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// psql builder de squirrel con placeholders $n.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// applyFilters traduce los filtros del puerto a condiciones de squirrel.
func applyFilters(q squirrel.SelectBuilder, filters []repository.Filter) (squirrel.SelectBuilder, error) {
	for _, f := range filters {
		switch f.Op {
		case repository.OpEq:
			q = q.Where(squirrel.Eq{f.Field: f.Value})
		case repository.OpLte:
			q = q.Where(squirrel.LtOrEq{f.Field: f.Value})
		default:
			return q, fmt.Errorf("operador no soportado: %q", f.Op)
		}
	}
	return q, nil
}
