package entity

import (
	"math"

	"github.com/shopspring/decimal"
)

// LowStockThreshold cantidad a partir de la cual (inclusive) un producto se considera con bajo stock.
const LowStockThreshold = 12

// Columnas del recurso products en el almacén remoto.
const (
	ProductID            = "id"
	ProductName          = "name"
	ProductDescription   = "description"
	ProductPurchasePrice = "purchase_price"
	ProductSalePrice     = "sale_price"
	ProductQuantity      = "quantity"
)

// Product producto del inventario.
// PurchasePrice es nil cuando la identidad no puede ver el precio de compra.
// PendingDelta es transitorio: no se persiste y se pierde en cada reconciliación.
type Product struct {
	ID            string
	Name          string
	Description   string
	PurchasePrice *decimal.Decimal
	SalePrice     decimal.Decimal
	Quantity      int
	PendingDelta  int
}

// IsLowStock indica si la cantidad está en o por debajo del umbral.
func (p Product) IsLowStock() bool {
	return p.Quantity <= LowStockThreshold
}

// ProductDraft campos capturados por formulario para crear o editar un producto (texto sin validar).
type ProductDraft struct {
	Name          string
	Description   string
	PurchasePrice string
	SalePrice     string
	Quantity      string
}

// AdjustOperation dirección de un ajuste de cantidad.
type AdjustOperation string

const (
	OperationAdd      AdjustOperation = "add"
	OperationSubtract AdjustOperation = "subtract"
)

// ValidOperation indica si op es add o subtract.
func ValidOperation(op AdjustOperation) bool {
	return op == OperationAdd || op == OperationSubtract
}

// MaxQuantity tope de la columna de cantidad (int32).
const MaxQuantity = math.MaxInt32

// ApplyDelta calcula la nueva cantidad. El resultado queda siempre entre 0 y MaxQuantity.
func ApplyDelta(current, delta int, op AdjustOperation) int {
	if current < 0 {
		current = 0
	}
	if delta < 0 {
		delta = 0
	}
	if op == OperationSubtract {
		if delta >= current {
			return 0
		}
		return current - delta
	}
	if delta > MaxQuantity-current {
		return MaxQuantity
	}
	return current + delta
}
