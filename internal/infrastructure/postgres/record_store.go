package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// RecordStore implementación del puerto RecordStore sobre PostgreSQL.
// Cada recurso se guarda en la tabla del mismo nombre.
type RecordStore struct {
	q Querier
}

// NewRecordStore construye el adaptador sobre un pool o una transacción.
func NewRecordStore(q Querier) *RecordStore {
	return &RecordStore{q: q}
}

// Select lee las columnas pedidas aplicando los filtros; sin filtros devuelve toda la colección.
func (s *RecordStore) Select(ctx context.Context, resource repository.Resource, fields []string, filters ...repository.Filter) ([]repository.Row, error) {
	if err := repository.CheckFields(resource, fields...); err != nil {
		return nil, err
	}
	for _, f := range filters {
		if err := repository.CheckFields(resource, f.Field); err != nil {
			return nil, err
		}
	}
	q, err := applyFilters(psql.Select(fields...).From(string(resource)).OrderBy("id"), filters)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", resource, err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", resource, err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	var out []repository.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", resource, err)
		}
		row := make(repository.Row, len(values))
		for i, v := range values {
			row[descs[i].Name] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", resource, err)
	}
	return out, nil
}

// Insert persiste la fila y devuelve su id (generado si la fila no lo trae).
func (s *RecordStore) Insert(ctx context.Context, resource repository.Resource, row repository.Row) (string, error) {
	if err := repository.CheckRow(resource, row); err != nil {
		return "", err
	}
	values := make(map[string]any, len(row)+1)
	for k, v := range row {
		values[k] = v
	}
	if row.String("id") == "" {
		values["id"] = uuid.New().String()
	}
	sql, args, err := psql.Insert(string(resource)).SetMap(values).Suffix("RETURNING id").ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert %s: %w", resource, err)
	}
	var id string
	if err := s.q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrDuplicate
		}
		return "", fmt.Errorf("insert %s: %w", resource, err)
	}
	return id, nil
}

// Update aplica el patch a la fila id. ErrNotFound si no existe.
func (s *RecordStore) Update(ctx context.Context, resource repository.Resource, id string, patch repository.Row) error {
	if len(patch) == 0 {
		return nil
	}
	if err := repository.CheckRow(resource, patch); err != nil {
		return err
	}
	sql, args, err := psql.Update(string(resource)).SetMap(patch).Where("id = ?", id).ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", resource, err)
	}
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", resource, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la fila id. ErrNotFound si no existe.
func (s *RecordStore) Delete(ctx context.Context, resource repository.Resource, id string) error {
	if _, err := repository.Columns(resource); err != nil {
		return err
	}
	sql, args, err := psql.Delete(string(resource)).Where("id = ?", id).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", resource, err)
	}
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
