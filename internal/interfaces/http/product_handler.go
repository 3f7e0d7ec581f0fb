package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/application/workspace"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// LowStockReporter genera el PDF de reposición.
type LowStockReporter interface {
	Generate(ctx context.Context, items []entity.Product, generatedAt time.Time) ([]byte, error)
}

// ProductHandler maneja el libro de inventario de la sesión (protegido).
type ProductHandler struct {
	workspaces    Workspaces
	replenishment *inventory.ReplenishmentUseCase
	reporter      LowStockReporter
}

// NewProductHandler construye el handler.
func NewProductHandler(ws Workspaces, replenishment *inventory.ReplenishmentUseCase, reporter LowStockReporter) *ProductHandler {
	return &ProductHandler{workspaces: ws, replenishment: replenishment, reporter: reporter}
}

// List godoc
// @Summary      Listar productos (caché de la sesión)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return h.withLedger(c, func(w *workspace.Workspace) error {
		return w.Ledger.Ensure(c.UserContext())
	})
}

// Reload godoc
// @Summary      Recargar productos desde el almacén
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/reload [post]
func (h *ProductHandler) Reload(c *fiber.Ctx) error {
	return h.withLedger(c, func(w *workspace.Workspace) error {
		return w.Ledger.Load(c.UserContext())
	})
}

// Search godoc
// @Summary      Filtrar la caché actual
// @Description  Reduce la caché a las filas que coinciden; la siguiente búsqueda parte del resultado reducido.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SearchRequest  true  "query"
// @Success      200   {object}  dto.ProductListResponse
// @Router       /api/products/search [post]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.withLedger(c, func(w *workspace.Workspace) error {
		w.Ledger.Search(in.Query)
		return nil
	})
}

// Clear godoc
// @Summary      Limpiar búsqueda (recarga completa)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/clear [post]
func (h *ProductHandler) Clear(c *fiber.Ctx) error {
	return h.withLedger(c, func(w *workspace.Workspace) error {
		return w.Ledger.Clear(c.UserContext())
	})
}

// Create godoc
// @Summary      Crear producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	if err := w.Ledger.Create(c.UserContext(), in.ToDraft()); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(productList(w))
}

// Update godoc
// @Summary      Editar producto (admin, sin cantidad)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.withLedger(c, func(w *workspace.Workspace) error {
		return w.Ledger.Update(c.UserContext(), c.Params("id"), in.ToDraft())
	})
}

// Delete godoc
// @Summary      Eliminar producto (admin)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	return h.withLedger(c, func(w *workspace.Workspace) error {
		return w.Ledger.Remove(c.UserContext(), c.Params("id"))
	})
}

// StagePending godoc
// @Summary      Guardar delta pendiente de un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.PendingDeltaRequest  true  "delta"
// @Success      200   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/pending [put]
func (h *ProductHandler) StagePending(c *fiber.Ctx) error {
	var in dto.PendingDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	delta, err := inventory.ParseDelta(in.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return h.withLedger(c, func(w *workspace.Workspace) error {
		if err := w.Ledger.Ensure(c.UserContext()); err != nil {
			return err
		}
		return w.Ledger.StageDelta(c.Params("id"), delta)
	})
}

// AdjustQuantity godoc
// @Summary      Sumar o restar cantidad
// @Description  Sin delta se usa el delta pendiente del producto. La resta tiene piso en cero.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustQuantityRequest  true  "delta, operation (add|subtract)"
// @Success      200   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quantity [post]
func (h *ProductHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	op := entity.AdjustOperation(in.Operation)
	id := c.Params("id")
	return h.withLedger(c, func(w *workspace.Workspace) error {
		ctx := c.UserContext()
		if err := w.Ledger.Ensure(ctx); err != nil {
			return err
		}
		if in.Delta == "" {
			return w.Ledger.AdjustStaged(ctx, id, op)
		}
		return w.Ledger.AdjustQuantityText(ctx, id, in.Delta, op)
	})
}

// LowStock godoc
// @Summary      Productos por reponer (cantidad <= 12)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItem
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.replenishment.List(c.UserContext())
	if err != nil {
		return writeError(c, &domain.RemoteError{Op: "listar bajo stock", Err: err})
	}
	out := make([]dto.LowStockItem, 0, len(items))
	for _, p := range items {
		out = append(out, dto.LowStockItem{ID: p.ID, Name: p.Name, Quantity: p.Quantity})
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de reposición
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /api/products/low-stock/report [get]
func (h *ProductHandler) LowStockReport(c *fiber.Ctx) error {
	items, err := h.replenishment.List(c.UserContext())
	if err != nil {
		return writeError(c, &domain.RemoteError{Op: "listar bajo stock", Err: err})
	}
	now := time.Now()
	doc, err := h.reporter.Generate(c.UserContext(), items, now)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reposicion-`+now.Format("20060102")+`.pdf"`)
	return c.Send(doc)
}

// withLedger ejecuta fn sobre el workspace de la sesión y responde con la caché resultante.
func (h *ProductHandler) withLedger(c *fiber.Ctx, fn func(w *workspace.Workspace) error) error {
	w, err := currentWorkspace(c, h.workspaces)
	if err != nil {
		return writeError(c, err)
	}
	if err := fn(w); err != nil {
		return writeError(c, err)
	}
	return c.JSON(productList(w))
}

func productList(w *workspace.Workspace) dto.ProductListResponse {
	items := w.Ledger.Products()
	out := dto.ProductListResponse{
		Items:     make([]dto.ProductResponse, 0, len(items)),
		CanDelete: access.NewGate(w.Identity.Identity()).CanDeleteProduct(),
	}
	for _, p := range items {
		out.Items = append(out.Items, dto.ToProductResponse(p))
	}
	return out
}
