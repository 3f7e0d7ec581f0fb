package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/profile"
)

const msgProfileUpdated = "Datos actualizados exitosamente. Cerrando sesión..."

// ProfileHandler datos propios de la sesión.
type ProfileHandler struct {
	workspaces Workspaces
}

// NewProfileHandler construye el handler.
func NewProfileHandler(ws Workspaces) *ProfileHandler {
	return &ProfileHandler{workspaces: ws}
}

// Get godoc
// @Summary      Registro propio
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StaffResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	rec, err := w.Profile.Current(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStaffResponse(*rec))
}

// Update godoc
// @Summary      Actualizar datos propios
// @Description  Fase 1 registro de personal, fase 2 credencial (servicio elevado). Con ambas fases correctas se cierran todas las sesiones.
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProfileRequest  true  "Datos del perfil"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.ProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	err = w.Profile.Update(c.UserContext(), profile.Change{
		Name:          in.Name,
		LastName:      in.LastName,
		Email:         in.Email,
		Secret:        in.Password,
		ConfirmSecret: in.ConfirmPassword,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: msgProfileUpdated})
}
