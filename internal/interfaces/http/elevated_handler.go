package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// CredentialUpdater cambia email y/o secreto de una credencial.
type CredentialUpdater interface {
	UpdateCredential(ctx context.Context, userID string, change ports.CredentialChange) error
}

// ElevatedHandler endpoints del servicio elevado. Los permisos se evalúan con el Gate
// sobre la identidad del token, nunca con el rol enviado en el cuerpo.
type ElevatedHandler struct {
	creds  CredentialUpdater
	purger repository.StaffPurger
	log    zerolog.Logger
}

// NewElevatedHandler construye el handler.
func NewElevatedHandler(creds CredentialUpdater, purger repository.StaffPurger, log zerolog.Logger) *ElevatedHandler {
	return &ElevatedHandler{creds: creds, purger: purger, log: log.With().Str("component", "elevated").Logger()}
}

// UpdateProfile godoc
// @Summary      Actualizar credencial propia
// @Description  Solo un administrador puede cambiar su email; cualquier identidad puede cambiar su contraseña.
// @Tags         elevated
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProfileCredentialRequest  true  "email, secret"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /profile [put]
func (h *ElevatedHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.ProfileCredentialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	identity := GetIdentity(c)
	if in.Email != "" && !access.NewGate(identity).CanChangeOwnEmail() {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Acceso denegado"})
	}
	if err := h.creds.UpdateCredential(c.UserContext(), identity.ID, ports.CredentialChange{Email: in.Email, Secret: in.Secret}); err != nil {
		return writeError(c, err)
	}
	h.log.Info().Str("identity", identity.ID).Bool("email", in.Email != "").Bool("secret", in.Secret != "").Msg("credencial actualizada")
	return c.JSON(dto.MessageResponse{Message: "Credencial actualizada"})
}

// DeleteStaff godoc
// @Summary      Eliminar credencial y registro de un empleado
// @Tags         elevated
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteStaffRequest  true  "id"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /deleteStaff [post]
func (h *ElevatedHandler) DeleteStaff(c *fiber.Ctx) error {
	var in dto.DeleteStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	identity := GetIdentity(c)
	if err := access.NewGate(identity).CheckMutateStaff(access.StaffDelete, in.ID); err != nil {
		return writeError(c, err)
	}
	if err := h.purger.PurgeStaff(c.UserContext(), in.ID); err != nil {
		return writeError(c, err)
	}
	h.log.Info().Str("identity", identity.ID).Str("staff", in.ID).Msg("empleado eliminado")
	return c.JSON(dto.MessageResponse{Message: "Empleado eliminado"})
}
