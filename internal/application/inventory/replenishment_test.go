package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/testutil"
)

type sinkSpy struct {
	message string
	items   []entity.Product
}

func (s *sinkSpy) AlertLowStock(message string, items []entity.Product) {
	s.message = message
	s.items = items
}

type gaugeSpy struct{ n int }

func (g *gaugeSpy) SetLowStock(n int) { g.n = n }

func TestReplenishment_FiltraPorUmbralEnElAlmacen(t *testing.T) {
	store := testutil.NewFakeStore()
	seedProducts(store)
	uc := inventory.NewReplenishmentUseCase(store, nil, nil, zerolog.Nop())

	items, err := uc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Arroz", items[0].Name, "orden por cantidad ascendente")
	calls := store.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []repository.Filter{repository.Lte(entity.ProductQuantity, entity.LowStockThreshold)}, calls[0].Filters)
}

func TestReplenishment_RunEmiteAlerta(t *testing.T) {
	store := testutil.NewFakeStore()
	seedProducts(store)
	sink := &sinkSpy{}
	gauge := &gaugeSpy{}

	inventory.NewReplenishmentUseCase(store, sink, gauge, zerolog.Nop()).Run(context.Background())

	assert.Equal(t, 2, gauge.n)
	assert.Equal(t, "Bajo stock (2): Arroz (5), Azúcar (12)", sink.message)
	assert.Len(t, sink.items, 2)
}

func TestReplenishment_SinBajoStockNoAlerta(t *testing.T) {
	store := testutil.NewFakeStore()
	sink := &sinkSpy{}

	inventory.NewReplenishmentUseCase(store, sink, nil, zerolog.Nop()).Run(context.Background())

	assert.Empty(t, sink.message)
}
