package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// Locals keys de la sesión autenticada en Fiber.
const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
	LocalRole      = "role"
	LocalSession   = "session"
)

// Authenticator valida un token y devuelve su sesión activa.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.Session, error)
}

// AuthMiddleware valida el Bearer Token JWT, comprueba que la sesión siga activa
// y carga identidad y sesión en c.Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		session, err := auth.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o sesión cerrada"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SESSION_CHECK_FAILED", Message: "no se pudo verificar la sesión, intente más tarde"})
		}
		if session.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol"})
		}
		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalSessionID, session.ID)
		c.Locals(LocalRole, session.Role)
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// RequireView corta la petición con 403 si la identidad no puede ver el recurso.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireView(resource access.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate := access.NewGate(GetIdentity(c))
		if err := gate.CheckView(resource); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol normalizado de la sesión.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetIdentity identidad de la sesión autenticada.
func GetIdentity(c *fiber.Ctx) entity.Identity {
	return entity.Identity{ID: GetUserID(c), Role: GetRole(c)}
}

// GetSession devuelve la sesión autenticada.
func GetSession(c *fiber.Ctx) (entity.Session, bool) {
	s, ok := c.Locals(LocalSession).(entity.Session)
	return s, ok
}
