package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/workspace"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// StaffHandler directorio de personal de la sesión (admin).
type StaffHandler struct {
	workspaces Workspaces
}

// NewStaffHandler construye el handler.
func NewStaffHandler(ws Workspaces) *StaffHandler {
	return &StaffHandler{workspaces: ws}
}

// List godoc
// @Summary      Listar personal (caché de la sesión)
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StaffResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		return w.Directory.Ensure(c.UserContext())
	})
}

// Reload godoc
// @Summary      Recargar personal
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StaffResponse
// @Router       /api/staff/reload [post]
func (h *StaffHandler) Reload(c *fiber.Ctx) error {
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		return w.Directory.Load(c.UserContext())
	})
}

// Search godoc
// @Summary      Filtrar la caché de personal
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SearchRequest  true  "query"
// @Success      200   {array}  dto.StaffResponse
// @Router       /api/staff/search [post]
func (h *StaffHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		w.Directory.Search(in.Query)
		return nil
	})
}

// Clear godoc
// @Summary      Limpiar búsqueda de personal
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StaffResponse
// @Router       /api/staff/clear [post]
func (h *StaffHandler) Clear(c *fiber.Ctx) error {
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		return w.Directory.Clear(c.UserContext())
	})
}

// Create godoc
// @Summary      Alta de personal (credencial + registro)
// @Description  El documento se usa como contraseña inicial. Si el registro falla tras crear la credencial responde 409 PARTIAL_FAILURE.
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StaffRequest  true  "Datos del empleado"
// @Success      201   {array}   dto.StaffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staff [post]
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var in dto.StaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	err = w.Directory.Create(c.UserContext(), entity.StaffCandidate{
		Name:           in.Name,
		LastName:       in.LastName,
		DocumentNumber: in.DocumentNumber,
		Role:           in.Role,
		Email:          in.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(staffList(w))
}

// Update godoc
// @Summary      Editar empleado
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del empleado"
// @Param        body  body  dto.StaffRequest  true  "Datos del empleado"
// @Success      200   {array}   dto.StaffResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/staff/{id} [put]
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var in dto.StaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		return w.Directory.Edit(c.UserContext(), entity.StaffRecord{
			ID:             c.Params("id"),
			Name:           in.Name,
			LastName:       in.LastName,
			DocumentNumber: in.DocumentNumber,
			Role:           in.Role,
			Email:          in.Email,
		})
	})
}

// Delete godoc
// @Summary      Eliminar empleado
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del empleado"
// @Success      200  {array}   dto.StaffResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/staff/{id} [delete]
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	return h.withDirectory(c, func(w *workspace.Workspace) error {
		return w.Directory.Delete(c.UserContext(), c.Params("id"))
	})
}

func (h *StaffHandler) withDirectory(c *fiber.Ctx, fn func(w *workspace.Workspace) error) error {
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	if err := fn(w); err != nil {
		return writeError(c, err)
	}
	return c.JSON(staffList(w))
}

func staffList(w *workspace.Workspace) []dto.StaffResponse {
	records := w.Directory.Records()
	out := make([]dto.StaffResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ToStaffResponse(r))
	}
	return out
}
