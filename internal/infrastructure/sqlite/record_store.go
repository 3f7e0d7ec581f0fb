package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// RecordStore implementación del puerto RecordStore sobre SQLite.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore construye el adaptador.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Select(ctx context.Context, resource repository.Resource, fields []string, filters ...repository.Filter) ([]repository.Row, error) {
	if err := repository.CheckFields(resource, fields...); err != nil {
		return nil, err
	}
	q := sq.Select(fields...).From(string(resource)).OrderBy("id")
	for _, f := range filters {
		if err := repository.CheckFields(resource, f.Field); err != nil {
			return nil, err
		}
		switch f.Op {
		case repository.OpEq:
			q = q.Where(squirrel.Eq{f.Field: f.Value})
		case repository.OpLte:
			q = q.Where(squirrel.LtOrEq{f.Field: f.Value})
		default:
			return nil, fmt.Errorf("operador no soportado: %q", f.Op)
		}
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", resource, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", resource, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", resource, err)
	}
	var out []repository.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", resource, err)
		}
		row := make(repository.Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", resource, err)
	}
	return out, nil
}

func (s *RecordStore) Insert(ctx context.Context, resource repository.Resource, row repository.Row) (string, error) {
	if err := repository.CheckRow(resource, row); err != nil {
		return "", err
	}
	values := make(map[string]any, len(row)+1)
	for k, v := range row {
		values[k] = v
	}
	id := row.String("id")
	if id == "" {
		id = uuid.New().String()
		values["id"] = id
	}
	query, args, err := sq.Insert(string(resource)).SetMap(values).ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert %s: %w", resource, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrDuplicate
		}
		return "", fmt.Errorf("insert %s: %w", resource, err)
	}
	return id, nil
}

func (s *RecordStore) Update(ctx context.Context, resource repository.Resource, id string, patch repository.Row) error {
	if len(patch) == 0 {
		return nil
	}
	if err := repository.CheckRow(resource, patch); err != nil {
		return err
	}
	query, args, err := sq.Update(string(resource)).SetMap(patch).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", resource, err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", resource, err)
	}
	return affectedOrNotFound(res)
}

func (s *RecordStore) Delete(ctx context.Context, resource repository.Resource, id string) error {
	if _, err := repository.Columns(resource); err != nil {
		return err
	}
	query, args, err := sq.Delete(string(resource)).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", resource, err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	return affectedOrNotFound(res)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
