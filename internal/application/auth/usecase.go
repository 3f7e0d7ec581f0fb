package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/pkg/jwt"
)

var _ ports.CredentialProvider = (*AuthUseCase)(nil)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, alta de credenciales, sesiones.
type AuthUseCase struct {
	creds    repository.CredentialRepository
	store    repository.RecordStore
	sessions SessionRegistry
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	creds repository.CredentialRepository,
	store repository.RecordStore,
	sessions SessionRegistry,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		creds:    creds,
		store:    store,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		log:      log.With().Str("component", "auth").Logger(),
		now:      time.Now,
	}
}

// Login verifica email/secreto, toma el rol del registro de personal y abre una sesión nueva.
// Una credencial sin registro de personal (alta a medias) no puede iniciar sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	cred, err := uc.creds.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	rows, err := uc.store.Select(ctx, repository.ResourceStaff, entity.StaffColumns, repository.Eq(entity.StaffID, cred.ID))
	if err != nil {
		return nil, fmt.Errorf("load staff record: %w", err)
	}
	if len(rows) == 0 {
		uc.log.Warn().Str("credential", cred.ID).Msg("credencial sin registro de personal")
		return nil, domain.ErrForbidden
	}
	row := rows[0]

	now := uc.now()
	session := entity.Session{
		ID:        uuid.New().String(),
		UserID:    cred.ID,
		Role:      entity.NormalizeRole(row.String(entity.StaffRole)),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, session.UserID, session.ID, session.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	session.Token = token
	if err := uc.sessions.Register(ctx, session, session.ExpiresAt.Sub(now)); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	uc.log.Info().Str("identity", session.UserID).Str("session", session.ID).Msg("sesión iniciada")

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User: dto.StaffResponse{
			ID:             row.String(entity.StaffID),
			Name:           row.String(entity.StaffName),
			LastName:       row.String(entity.StaffLastName),
			DocumentNumber: row.String(entity.StaffDocumentNumber),
			Role:           session.Role,
			Email:          row.String(entity.StaffEmail),
		},
	}, nil
}

// Authenticate valida el token y comprueba que la sesión siga activa.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (entity.Session, error) {
	userID, sessionID, role, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return entity.Session{}, domain.ErrUnauthorized
	}
	active, err := uc.sessions.IsActive(ctx, sessionID)
	if err != nil {
		return entity.Session{}, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return entity.Session{}, domain.ErrUnauthorized
	}
	return entity.Session{ID: sessionID, UserID: userID, Role: role, Token: token}, nil
}

// SignUp crea la credencial (fase A del alta de personal) y devuelve el ID de identidad.
func (uc *AuthUseCase) SignUp(ctx context.Context, email, secret string) (string, error) {
	email = strings.TrimSpace(email)
	existing, err := uc.creds.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	now := uc.now()
	cred := &entity.Credential{
		ID:         uuid.New().String(),
		Email:      email,
		SecretHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.creds.Create(ctx, cred); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// SignOut revoca la sesión actual o todas las de la identidad. Devuelve los IDs revocados.
func (uc *AuthUseCase) SignOut(ctx context.Context, session entity.Session, scope entity.SignOutScope) ([]string, error) {
	switch scope {
	case entity.ScopeThisDevice:
		if err := uc.sessions.Revoke(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("revoke session: %w", err)
		}
		return []string{session.ID}, nil
	case entity.ScopeGlobal:
		ids, err := uc.sessions.RevokeAll(ctx, session.UserID)
		if err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
		uc.log.Info().Str("identity", session.UserID).Int("sessions", len(ids)).Msg("cierre de sesión global")
		return ids, nil
	default:
		return nil, domain.NewValidationError("scope", "alcance de cierre de sesión inválido")
	}
}

// UpdateCredential aplica un cambio de email y/o secreto a la credencial del usuario.
// Lo usa el servicio elevado para PUT /profile.
func (uc *AuthUseCase) UpdateCredential(ctx context.Context, userID string, change ports.CredentialChange) error {
	cred, err := uc.creds.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if cred == nil {
		return domain.ErrUserNotFound
	}
	email := strings.TrimSpace(change.Email)
	if email != "" && !strings.EqualFold(email, cred.Email) {
		other, err := uc.creds.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != cred.ID {
			return domain.ErrEmailAlreadyExists
		}
		cred.Email = email
	}
	if change.Secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(change.Secret), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		cred.SecretHash = string(hash)
	}
	cred.UpdatedAt = uc.now()
	return uc.creds.Update(ctx, cred)
}
