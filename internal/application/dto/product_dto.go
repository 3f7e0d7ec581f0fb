package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// ProductRequest formulario de alta/edición. Precios y cantidad llegan como texto y deben ser solo dígitos.
type ProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PurchasePrice string `json:"purchase_price"`
	SalePrice     string `json:"sale_price"`
	Quantity      string `json:"quantity"`
}

// ToDraft convierte la petición al borrador de dominio.
func (r ProductRequest) ToDraft() entity.ProductDraft {
	return entity.ProductDraft{
		Name:          r.Name,
		Description:   r.Description,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
		Quantity:      r.Quantity,
	}
}

// PendingDeltaRequest delta capturado para un producto.
type PendingDeltaRequest struct {
	Delta string `json:"delta"`
}

// AdjustQuantityRequest ajuste de cantidad. Delta vacío usa el delta pendiente del producto.
type AdjustQuantityRequest struct {
	Delta     string `json:"delta"`
	Operation string `json:"operation"` // add | subtract
}

// ProductResponse salida de un producto. purchase_price se omite si la identidad no puede verlo.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Quantity      int              `json:"quantity"`
	PendingDelta  int              `json:"pending_delta,omitempty"`
	LowStock      bool             `json:"low_stock"`
}

// ProductListResponse listado de productos de la caché.
type ProductListResponse struct {
	Items     []ProductResponse `json:"items"`
	CanDelete bool              `json:"can_delete"`
}

// LowStockItem producto por reponer.
type LowStockItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      p.Quantity,
		PendingDelta:  p.PendingDelta,
		LowStock:      p.IsLowStock(),
	}
}
