package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

var (
	admin = entity.Identity{ID: "u-admin", Role: entity.RoleAdmin}
	staff = entity.Identity{ID: "u-staff", Role: entity.RoleStaff}
)

// ──────────────────────────────────────────────────────────────────────────────
// Vistas
// ──────────────────────────────────────────────────────────────────────────────

func TestGate_DirectorioSoloAdmin(t *testing.T) {
	assert.True(t, access.NewGate(admin).CanView(access.ResourceStaffDirectory))
	assert.False(t, access.NewGate(staff).CanView(access.ResourceStaffDirectory))

	err := access.NewGate(staff).CheckView(access.ResourceStaffDirectory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestGate_CatalogoParaCualquierIdentidad(t *testing.T) {
	assert.True(t, access.NewGate(admin).CanView(access.ResourceProductCatalog))
	assert.True(t, access.NewGate(staff).CanView(access.ResourceProductCatalog))
	assert.False(t, access.NewGate(entity.Identity{}).CanView(access.ResourceProductCatalog))
}

func TestGate_ProductFields_OcultaPrecioCompraANoAdmin(t *testing.T) {
	assert.Contains(t, access.NewGate(admin).ProductFields(), entity.ProductPurchasePrice)
	assert.NotContains(t, access.NewGate(staff).ProductFields(), entity.ProductPurchasePrice)
	assert.Contains(t, access.NewGate(staff).ProductFields(), entity.ProductQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestGate_ProductosEstructuralesSoloAdmin(t *testing.T) {
	assert.NoError(t, access.NewGate(admin).CheckEditProduct())
	assert.NoError(t, access.NewGate(admin).CheckDeleteProduct())
	assert.ErrorIs(t, access.NewGate(staff).CheckEditProduct(), domain.ErrForbidden)
	assert.ErrorIs(t, access.NewGate(staff).CheckDeleteProduct(), domain.ErrForbidden)
}

func TestGate_AjusteDeCantidadParaCualquierIdentidad(t *testing.T) {
	assert.NoError(t, access.NewGate(admin).CheckAdjustQuantity())
	assert.NoError(t, access.NewGate(staff).CheckAdjustQuantity())
}

func TestGate_AutoproteccionAplicaAAdmin(t *testing.T) {
	g := access.NewGate(admin)
	assert.False(t, g.CanMutateStaff(admin.ID))
	assert.True(t, g.CanMutateStaff("otro"))

	for _, action := range []access.StaffAction{access.StaffEdit, access.StaffDelete} {
		err := g.CheckMutateStaff(action, admin.ID)
		var authErr *domain.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		assert.True(t, authErr.SelfProtection())
	}
	err := g.CheckMutateStaff(access.StaffDelete, admin.ID)
	assert.Equal(t, "No puedes eliminar tu propio usuario.", err.Error())
}

func TestGate_StaffNoPuedeMutarPersonal(t *testing.T) {
	err := access.NewGate(staff).CheckMutateStaff(access.StaffEdit, "otro")
	var authErr *domain.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, authErr.SelfProtection())
	assert.ErrorIs(t, access.NewGate(staff).CheckCreateStaff(), domain.ErrForbidden)
}

func TestGate_CambioDeEmailPropioSoloAdmin(t *testing.T) {
	assert.True(t, access.NewGate(admin).CanChangeOwnEmail())
	assert.False(t, access.NewGate(staff).CanChangeOwnEmail())
}

func TestGate_RolDesconocidoSinPrivilegios(t *testing.T) {
	g := access.NewGate(entity.Identity{ID: "x", Role: "superuser"})
	assert.False(t, g.CanView(access.ResourceStaffDirectory))
	assert.False(t, g.CanDeleteProduct())
	assert.True(t, g.CanAdjustQuantity())
}
