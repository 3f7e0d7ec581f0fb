package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// AlertSink recibe la alerta periódica de bajo stock (p. ej. difusión a administradores).
type AlertSink interface {
	AlertLowStock(message string, items []entity.Product)
}

// LowStockGauge expone el número de productos con bajo stock.
type LowStockGauge interface {
	SetLowStock(n int)
}

// ReplenishmentUseCase genera la lista de reposición consultando directamente el almacén
// con el filtro quantity <= LowStockThreshold. No depende de la caché de ninguna sesión.
type ReplenishmentUseCase struct {
	store repository.RecordStore
	sink  AlertSink
	gauge LowStockGauge
	log   zerolog.Logger
}

// NewReplenishmentUseCase construye el caso de uso de reposición. sink y gauge pueden ser nil.
func NewReplenishmentUseCase(store repository.RecordStore, sink AlertSink, gauge LowStockGauge, log zerolog.Logger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{store: store, sink: sink, gauge: gauge, log: log.With().Str("component", "replenishment").Logger()}
}

// List devuelve los productos con bajo stock ordenados por cantidad ascendente y luego por nombre.
func (uc *ReplenishmentUseCase) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := uc.store.Select(ctx, repository.ResourceProducts,
		[]string{entity.ProductID, entity.ProductName, entity.ProductQuantity},
		repository.Lte(entity.ProductQuantity, entity.LowStockThreshold),
	)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	items := make([]entity.Product, 0, len(rows))
	for _, r := range rows {
		items = append(items, productFromRow(r, false))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity < items[j].Quantity
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Run consulta la lista y emite la alerta si hay productos por reponer. Pensado para el cron.
func (uc *ReplenishmentUseCase) Run(ctx context.Context) {
	items, err := uc.List(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("revisión de bajo stock")
		return
	}
	if uc.gauge != nil {
		uc.gauge.SetLowStock(len(items))
	}
	uc.log.Info().Int("items", len(items)).Msg("revisión de bajo stock")
	if len(items) == 0 || uc.sink == nil {
		return
	}
	uc.sink.AlertLowStock(LowStockMessage(items), items)
}

// LowStockMessage resume la lista en una línea: "Bajo stock (2): Arroz (3), Sal (12)".
func LowStockMessage(items []entity.Product) string {
	parts := make([]string, 0, len(items))
	for _, p := range items {
		parts = append(parts, fmt.Sprintf("%s (%d)", p.Name, p.Quantity))
	}
	return fmt.Sprintf("Bajo stock (%d): %s", len(items), strings.Join(parts, ", "))
}
