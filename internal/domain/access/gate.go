// Package access concentra toda la política de acceso por rol. Es puro: no hace I/O.
package access

import (
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// Resource vista protegida por el Gate.
type Resource string

const (
	ResourceStaffDirectory Resource = "staff_directory"
	ResourceProductCatalog Resource = "product_catalog"
)

// StaffAction acción de mutación sobre un StaffRecord.
type StaffAction string

const (
	StaffEdit   StaffAction = "edit"
	StaffDelete StaffAction = "delete"
)

const msgDenied = "Acceso denegado"

var selfMessages = map[StaffAction]string{
	StaffEdit:   "No puedes editar tu propio usuario.",
	StaffDelete: "No puedes eliminar tu propio usuario.",
}

// Gate decide qué puede ver y mutar una identidad.
type Gate struct {
	identity entity.Identity
}

// NewGate construye el Gate para la identidad dada.
func NewGate(identity entity.Identity) Gate {
	return Gate{identity: identity}
}

// Identity devuelve la identidad evaluada.
func (g Gate) Identity() entity.Identity { return g.identity }

func (g Gate) isAdmin() bool { return g.identity.Role == entity.RoleAdmin }

func (g Gate) authenticated() bool { return g.identity.ID != "" }

// CanView: el directorio de personal solo para admin; el catálogo para cualquier identidad.
func (g Gate) CanView(r Resource) bool {
	switch r {
	case ResourceStaffDirectory:
		return g.isAdmin()
	case ResourceProductCatalog:
		return g.authenticated()
	default:
		return false
	}
}

// CanViewPurchasePrice el precio de compra solo es visible para admin.
func (g Gate) CanViewPurchasePrice() bool { return g.isAdmin() }

// CanDeleteProduct eliminar productos requiere admin.
func (g Gate) CanDeleteProduct() bool { return g.isAdmin() }

// CanEditProduct campos estructurales (nombre, descripción, precios) requieren admin.
func (g Gate) CanEditProduct() bool { return g.isAdmin() }

// CanAdjustQuantity cualquier identidad puede ajustar cantidades.
func (g Gate) CanAdjustQuantity() bool { return g.authenticated() }

// CanCreateStaff crear personal requiere admin.
func (g Gate) CanCreateStaff() bool { return g.isAdmin() }

// CanMutateStaff es falso siempre que el objetivo sea la propia identidad, sin importar el rol.
func (g Gate) CanMutateStaff(targetID string) bool {
	if targetID == g.identity.ID {
		return false
	}
	return g.isAdmin()
}

// CanChangeOwnEmail solo admin puede cambiar su propio email.
func (g Gate) CanChangeOwnEmail() bool { return g.isAdmin() }

// CanReceiveStockAlerts las alertas periódicas de bajo stock van solo a admin.
func (g Gate) CanReceiveStockAlerts() bool { return g.isAdmin() }

// ProductFields columnas de products visibles para la identidad.
func (g Gate) ProductFields() []string {
	fields := []string{entity.ProductID, entity.ProductName, entity.ProductDescription}
	if g.CanViewPurchasePrice() {
		fields = append(fields, entity.ProductPurchasePrice)
	}
	return append(fields, entity.ProductSalePrice, entity.ProductQuantity)
}

// CheckView devuelve AuthorizationError si la identidad no puede ver r.
func (g Gate) CheckView(r Resource) error {
	if g.CanView(r) {
		return nil
	}
	return deny("view:"+string(r), domain.DenyRole, msgDenied)
}

// CheckEditProduct devuelve AuthorizationError si la identidad no puede editar campos estructurales.
func (g Gate) CheckEditProduct() error {
	if g.CanEditProduct() {
		return nil
	}
	return deny("product:edit", domain.DenyRole, msgDenied)
}

// CheckDeleteProduct devuelve AuthorizationError si la identidad no puede eliminar productos.
func (g Gate) CheckDeleteProduct() error {
	if g.CanDeleteProduct() {
		return nil
	}
	return deny("product:delete", domain.DenyRole, msgDenied)
}

// CheckAdjustQuantity devuelve AuthorizationError si no hay identidad.
func (g Gate) CheckAdjustQuantity() error {
	if g.CanAdjustQuantity() {
		return nil
	}
	return deny("product:adjust", domain.DenyRole, msgDenied)
}

// CheckCreateStaff devuelve AuthorizationError si la identidad no puede crear personal.
func (g Gate) CheckCreateStaff() error {
	if g.CanCreateStaff() {
		return nil
	}
	return deny("staff:create", domain.DenyRole, msgDenied)
}

// CheckMutateStaff aplica la autoprotección antes que el rol: un admin tampoco puede
// editarse ni eliminarse a sí mismo desde el directorio.
func (g Gate) CheckMutateStaff(action StaffAction, targetID string) error {
	if targetID == g.identity.ID {
		return deny("staff:"+string(action), domain.DenySelf, selfMessages[action])
	}
	if !g.isAdmin() {
		return deny("staff:"+string(action), domain.DenyRole, msgDenied)
	}
	return nil
}

func deny(action, reason, message string) *domain.AuthorizationError {
	return &domain.AuthorizationError{Action: action, Reason: reason, Message: message}
}
