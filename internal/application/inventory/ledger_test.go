package inventory_test

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func seedProducts(store *testutil.FakeStore) {
	store.Seed(repository.ResourceProducts,
		repository.Row{"id": "p1", "name": "Arroz", "description": "Bolsa 1kg", "purchase_price": decimal.NewFromInt(2000), "sale_price": decimal.NewFromInt(2600), "quantity": 5},
		repository.Row{"id": "p2", "name": "Azúcar", "description": "Bolsa 500g", "purchase_price": decimal.NewFromInt(1500), "sale_price": decimal.NewFromInt(1900), "quantity": 12},
		repository.Row{"id": "p3", "name": "Aceite", "description": "Botella 1L", "purchase_price": decimal.NewFromInt(7000), "sale_price": decimal.NewFromInt(9100), "quantity": 13},
	)
}

func newLedger(t *testing.T, role string) (*inventory.Ledger, *testutil.FakeStore, *testutil.Notifier) {
	t.Helper()
	store := testutil.NewFakeStore()
	seedProducts(store)
	notifier := &testutil.Notifier{}
	identity := testutil.NewFakeIdentity("u-"+role, role)
	l := inventory.NewLedger(context.Background(), store, identity, notifier, nil, zerolog.Nop())
	t.Cleanup(l.Close)
	require.NoError(t, l.Load(context.Background()))
	return l, store, notifier
}

func quantityOf(t *testing.T, l *inventory.Ledger, id string) int {
	t.Helper()
	for _, p := range l.Products() {
		if p.ID == id {
			return p.Quantity
		}
	}
	t.Fatalf("producto %s no está en caché", id)
	return 0
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste de cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustQuantity_RestaSeRecortaACero(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleStaff)

	require.NoError(t, l.AdjustQuantity(context.Background(), "p1", 9, entity.OperationSubtract))

	row, _ := store.Get(repository.ResourceProducts, "p1")
	assert.Equal(t, 0, row.Int("quantity"))
	assert.Equal(t, 0, quantityOf(t, l, "p1"))
	assert.Equal(t, "Cantidad actualizada", notifier.Last().Message)
}

func TestAdjustQuantity_SumaPersisteSoloCantidad(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleStaff)

	require.NoError(t, l.AdjustQuantity(context.Background(), "p2", 3, entity.OperationAdd))

	var update testutil.Call
	for _, c := range store.Calls() {
		if c.Method == "Update" {
			update = c
		}
	}
	assert.Equal(t, repository.Row{"quantity": 15}, update.Row)
	assert.Equal(t, 15, quantityOf(t, l, "p2"))
}

func TestAdjustQuantity_DeltaInvalidoNoLlegaAlAlmacen(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleAdmin)
	before := len(store.Calls())

	for _, delta := range []int{0, -3} {
		err := l.AdjustQuantity(context.Background(), "p1", delta, entity.OperationAdd)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
	}
	assert.Len(t, store.Calls(), before, "ninguna llamada al almacén")
	assert.Equal(t, entity.SeverityWarning, notifier.Last().Severity)
}

func TestAdjustQuantity_FallaRemotaConservaCache(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleStaff)
	store.Fail("Update", repository.ResourceProducts, errors.New("connection reset"))

	err := l.AdjustQuantity(context.Background(), "p1", 2, entity.OperationAdd)

	var rErr *domain.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Equal(t, 5, quantityOf(t, l, "p1"))
	assert.Equal(t, "Error al actualizar cantidad", notifier.Last().Message)
}

func TestAdjustQuantity_SumaSeSaturaEnElTope(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleStaff)

	require.NoError(t, l.AdjustQuantity(context.Background(), "p1", entity.MaxQuantity, entity.OperationAdd))

	row, _ := store.Get(repository.ResourceProducts, "p1")
	assert.Equal(t, entity.MaxQuantity, row.Int("quantity"))
	assert.Equal(t, entity.MaxQuantity, quantityOf(t, l, "p1"))
}

func TestAdjustQuantity_DeltaFueraDeRangoSeRechaza(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleStaff)
	before := len(store.Calls())

	err := l.AdjustQuantity(context.Background(), "p1", math.MaxInt, entity.OperationAdd)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, store.Calls(), before)
	assert.Equal(t, 5, quantityOf(t, l, "p1"))
	assert.Equal(t, entity.SeverityWarning, notifier.Last().Severity)
}

func TestAdjustQuantityText_TextoInvalidoSeRechazaYNotifica(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleStaff)
	before := len(store.Calls())
	inputs := []string{"abc", "", "0", "-4", strconv.Itoa(math.MaxInt)}

	for _, raw := range inputs {
		notified := len(notifier.All())
		err := l.AdjustQuantityText(context.Background(), "p1", raw, entity.OperationAdd)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
		require.Len(t, notifier.All(), notified+1, raw)
		assert.Equal(t, "Ingresa una cantidad válida", notifier.Last().Message)
	}
	assert.Len(t, store.Calls(), before, "ninguna llamada al almacén")
	assert.Equal(t, 5, quantityOf(t, l, "p1"))
}

func TestAdjustQuantityText_DeltaValido(t *testing.T) {
	l, _, notifier := newLedger(t, entity.RoleStaff)

	require.NoError(t, l.AdjustQuantityText(context.Background(), "p2", " 3 ", entity.OperationAdd))

	assert.Equal(t, 15, quantityOf(t, l, "p2"))
	assert.Equal(t, "Cantidad actualizada", notifier.Last().Message)
}

func TestAdjustStaged_UsaDeltaPendiente(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleStaff)
	require.NoError(t, l.StageDelta("p3", 4))

	require.NoError(t, l.AdjustStaged(context.Background(), "p3", entity.OperationSubtract))

	assert.Equal(t, 9, quantityOf(t, l, "p3"))
	for _, p := range l.Products() {
		assert.Zero(t, p.PendingDelta, "la reconciliación descarta deltas pendientes")
	}
}

func TestStageDelta_ProductoInexistente(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleStaff)
	assert.ErrorIs(t, l.StageDelta("nope", 1), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad, búsqueda y bajo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_StaffNoVePrecioDeCompra(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleStaff)

	for _, p := range l.Products() {
		assert.Nil(t, p.PurchasePrice)
	}
	assert.NotContains(t, store.Calls()[0].Fields, entity.ProductPurchasePrice)
}

func TestLoad_AdminVePrecioDeCompra(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleAdmin)
	for _, p := range l.Products() {
		require.NotNil(t, p.PurchasePrice)
	}
}

func TestSearch_ClearRestauraColeccion(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleStaff)

	l.Search("")
	l.Search("bolsa")
	assert.Len(t, l.Products(), 2)
	l.Search("x")
	assert.Empty(t, l.Products())

	require.NoError(t, l.Clear(context.Background()))
	assert.Len(t, l.Products(), 3)
}

func TestLowStock_UmbralInclusivo(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleStaff)

	low := l.LowStock()
	ids := []string{}
	for _, p := range low {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta, edición y eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestRemove_StaffDenegadoSinLlamarAlmacen(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleStaff)

	err := l.Remove(context.Background(), "p1")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, store.Mutations())
}

func TestRemove_AdminEliminaYRecarga(t *testing.T) {
	l, store, notifier := newLedger(t, entity.RoleAdmin)

	require.NoError(t, l.Remove(context.Background(), "p1"))

	assert.Len(t, l.Products(), 2)
	assert.Equal(t, 2, store.CallCount("Select"))
	assert.Equal(t, "Producto eliminado correctamente", notifier.Last().Message)
}

func TestCreate_ValidaCamposNumericos(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleAdmin)

	err := l.Create(context.Background(), entity.ProductDraft{
		Name: "Sal", Description: "Bolsa", PurchasePrice: "1.5", SalePrice: "2000", Quantity: "4",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = l.Create(context.Background(), entity.ProductDraft{Name: "Sal"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, store.Mutations())
}

func TestCreate_AdminInsertaYRecarga(t *testing.T) {
	l, _, _ := newLedger(t, entity.RoleAdmin)

	require.NoError(t, l.Create(context.Background(), entity.ProductDraft{
		Name: "Sal", Description: "Bolsa 500g", PurchasePrice: "800", SalePrice: "1200", Quantity: "30",
	}))
	assert.Len(t, l.Products(), 4)
}

func TestUpdate_StaffDenegado(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleStaff)
	err := l.Update(context.Background(), "p1", entity.ProductDraft{Name: "x", Description: "y", PurchasePrice: "1", SalePrice: "2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, store.Mutations())
}

func TestUpdate_NoTocaCantidad(t *testing.T) {
	l, store, _ := newLedger(t, entity.RoleAdmin)

	require.NoError(t, l.Update(context.Background(), "p1", entity.ProductDraft{
		Name: "Arroz Premium", Description: "Bolsa 1kg", PurchasePrice: "2100", SalePrice: "2800", Quantity: "999",
	}))
	row, _ := store.Get(repository.ResourceProducts, "p1")
	assert.Equal(t, "Arroz Premium", row.String("name"))
	assert.Equal(t, 5, row.Int("quantity"))
}

func TestParseDelta(t *testing.T) {
	n, err := inventory.ParseDelta(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = inventory.ParseDelta(strconv.Itoa(entity.MaxQuantity))
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, n)

	invalid := []string{"", "abc", "0", "-2", "1.5", strconv.FormatInt(entity.MaxQuantity+1, 10), strconv.Itoa(math.MaxInt)}
	for _, raw := range invalid {
		_, err := inventory.ParseDelta(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}
