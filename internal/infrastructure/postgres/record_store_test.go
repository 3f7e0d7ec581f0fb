package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// ──────────────────────────────────────────────────────────────────────────────
// Select
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordStore_SelectColeccionCompleta(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, quantity FROM products ORDER BY id")).
		WillReturnRows(mock.NewRows([]string{"id", "name", "quantity"}).
			AddRow("p1", "Arroz", int32(5)).
			AddRow("p2", "Azúcar", int32(12)))

	rows, err := store.Select(context.Background(), repository.ResourceProducts, []string{"id", "name", "quantity"})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Arroz", rows[0].String("name"))
	assert.Equal(t, 12, rows[1].Int("quantity"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_SelectConFiltroLte(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sale_price FROM products WHERE quantity <= $1 ORDER BY id")).
		WithArgs(12).
		WillReturnRows(mock.NewRows([]string{"id", "sale_price"}).AddRow("p1", decimal.RequireFromString("2600.00")))

	rows, err := store.Select(context.Background(), repository.ResourceProducts, []string{"id", "sale_price"},
		repository.Lte("quantity", 12))
	require.NoError(t, err)

	d, ok := rows[0].Decimal("sale_price")
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(2600)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_SelectRechazaColumnaDesconocida(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	_, err := store.Select(context.Background(), repository.ResourceProducts, []string{"id", "password"})
	assert.Error(t, err)

	_, err = store.Select(context.Background(), repository.Resource("invoices"), []string{"id"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_SelectErrorDeConexion(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)
	mock.ExpectQuery("SELECT (.+) FROM staff").WillReturnError(errors.New("connection refused"))

	_, err := store.Select(context.Background(), repository.ResourceStaff, []string{"id"})
	assert.ErrorContains(t, err, "select staff")
}

// ──────────────────────────────────────────────────────────────────────────────
// Insert / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordStore_InsertConIDExplicito(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO staff (email,id,name) VALUES ($1,$2,$3) RETURNING id")).
		WithArgs("a@b.co", "cred-1", "Ana").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("cred-1"))

	id, err := store.Insert(context.Background(), repository.ResourceStaff, repository.Row{"id": "cred-1", "name": "Ana", "email": "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "cred-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_InsertGeneraID(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (id,name) VALUES ($1,$2) RETURNING id")).
		WithArgs(pgxmock.AnyArg(), "Sal").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("generated"))

	id, err := store.Insert(context.Background(), repository.ResourceProducts, repository.Row{"name": "Sal"})
	require.NoError(t, err)
	assert.Equal(t, "generated", id)
}

func TestRecordStore_InsertDuplicado(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)
	mock.ExpectQuery("INSERT INTO staff").WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Insert(context.Background(), repository.ResourceStaff, repository.Row{"id": "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRecordStore_UpdateSoloCantidad(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = $1 WHERE id = $2")).
		WithArgs(0, "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.Update(context.Background(), repository.ResourceProducts, "p1", repository.Row{"quantity": 0}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_UpdateInexistente(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)
	mock.ExpectExec("UPDATE products").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.Update(context.Background(), repository.ResourceProducts, "nope", repository.Row{"quantity": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_Delete(t *testing.T) {
	mock := newMock(t)
	store := postgres.NewRecordStore(mock)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), repository.ResourceProducts, "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
