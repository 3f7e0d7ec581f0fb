package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/auth"
	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// AuthHandler maneja login y logout.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	onSignOut func(sessionIDs ...string)
}

// NewAuthHandler construye el handler de auth. onSignOut cierra las vistas de las sesiones revocadas.
func NewAuthHandler(uc *auth.AuthUseCase, onSignOut func(sessionIDs ...string)) *AuthHandler {
	return &AuthHandler{uc: uc, onSignOut: onSignOut}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la cuenta no tiene registro de personal"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  scope "this-device" (por defecto) cierra esta sesión; "global" cierra todas las de la identidad.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogoutRequest  false  "scope"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var in dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	scope := entity.SignOutScope(in.Scope)
	if scope == "" {
		scope = entity.ScopeThisDevice
	}
	if !entity.ValidScope(scope) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "scope debe ser this-device o global"})
	}

	session, ok := GetSession(c)
	if !ok {
		return writeError(c, domain.ErrUnauthorized)
	}
	ids, err := h.uc.SignOut(c.UserContext(), session, scope)
	if err != nil {
		return writeError(c, err)
	}
	if h.onSignOut != nil {
		h.onSignOut(ids...)
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada"})
}
