package repository

import (
	"context"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// CredentialRepository define el puerto de persistencia para credenciales (DIP).
// Los Get devuelven (nil, nil) cuando no existe la credencial.
type CredentialRepository interface {
	Create(ctx context.Context, c *entity.Credential) error
	GetByID(ctx context.Context, id string) (*entity.Credential, error)
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
	Update(ctx context.Context, c *entity.Credential) error
}

// StaffPurger elimina credencial y registro de personal en una sola transacción.
type StaffPurger interface {
	PurgeStaff(ctx context.Context, id string) error
}
