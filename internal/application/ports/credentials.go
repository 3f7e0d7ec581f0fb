package ports

import "context"

// CredentialProvider crea credenciales de acceso (fase A del alta de personal).
type CredentialProvider interface {
	// SignUp crea la credencial y devuelve el ID de identidad asignado.
	SignUp(ctx context.Context, email, secret string) (string, error)
}

// CredentialChange cambios de credencial solicitados por el propio usuario.
// Un campo vacío significa "sin cambio".
type CredentialChange struct {
	Email  string
	Secret string
}

// ProfileCredentialUpdater endpoint elevado PUT /profile, autenticado con el token del usuario.
type ProfileCredentialUpdater interface {
	UpdateProfileCredential(ctx context.Context, token string, change CredentialChange) error
}

// StaffRemover endpoint elevado POST /deleteStaff: elimina credencial y registro de forma atómica.
type StaffRemover interface {
	DeleteStaff(ctx context.Context, token, id string) error
}
