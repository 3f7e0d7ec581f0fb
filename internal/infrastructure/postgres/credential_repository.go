package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

const credentialsTable = "credentials"

var credentialColumns = []string{"id", "email", "secret_hash", "created_at", "updated_at"}

type credentialRow struct {
	ID         string    `db:"id"`
	Email      string    `db:"email"`
	SecretHash string    `db:"secret_hash"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r credentialRow) toEntity() *entity.Credential {
	return &entity.Credential{
		ID:         r.ID,
		Email:      r.Email,
		SecretHash: r.SecretHash,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// CredentialRepo implementación del puerto CredentialRepository sobre PostgreSQL.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador de persistencia para credenciales.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// Create persiste una nueva credencial.
func (r *CredentialRepo) Create(ctx context.Context, c *entity.Credential) error {
	sql, args, err := psql.Insert(credentialsTable).
		Columns(credentialColumns...).
		Values(c.ID, c.Email, c.SecretHash, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert credential: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// GetByID obtiene una credencial por ID.
func (r *CredentialRepo) GetByID(ctx context.Context, id string) (*entity.Credential, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail obtiene una credencial por email (sin distinguir mayúsculas).
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	return r.getOne(ctx, squirrel.Expr("lower(email) = lower(?)", email))
}

func (r *CredentialRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Credential, error) {
	sql, args, err := psql.Select(credentialColumns...).From(credentialsTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential: %w", err)
	}
	var row credentialRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza email y secreto.
func (r *CredentialRepo) Update(ctx context.Context, c *entity.Credential) error {
	sql, args, err := psql.Update(credentialsTable).
		Set("email", c.Email).
		Set("secret_hash", c.SecretHash).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update credential: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
