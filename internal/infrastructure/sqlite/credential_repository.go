package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

type credentialRow struct {
	ID         string    `db:"id"`
	Email      string    `db:"email"`
	SecretHash string    `db:"secret_hash"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// CredentialRepo credenciales sobre SQLite. El email es único sin distinguir mayúsculas (COLLATE NOCASE).
type CredentialRepo struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) Create(ctx context.Context, c *entity.Credential) error {
	query, args, err := sq.Insert("credentials").
		Columns("id", "email", "secret_hash", "created_at", "updated_at").
		Values(c.ID, c.Email, c.SecretHash, c.CreatedAt.UTC(), c.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert credential: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepo) GetByID(ctx context.Context, id string) (*entity.Credential, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *CredentialRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Credential, error) {
	query, args, err := sq.Select("id", "email", "secret_hash", "created_at", "updated_at").
		From("credentials").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential: %w", err)
	}
	var row credentialRow
	if err := sqlscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &entity.Credential{
		ID:         row.ID,
		Email:      row.Email,
		SecretHash: row.SecretHash,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (r *CredentialRepo) Update(ctx context.Context, c *entity.Credential) error {
	query, args, err := sq.Update("credentials").
		Set("email", c.Email).
		Set("secret_hash", c.SecretHash).
		Set("updated_at", c.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update credential: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
