// Package metrics métricas Prometheus del panel sobre un registro propio.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/application/ports"
)

var (
	_ ports.OperationRecorder = (*Recorder)(nil)
	_ inventory.LowStockGauge = (*Recorder)(nil)
)

// Recorder contadores por operación/resultado, gauge de bajo stock y sesiones activas.
type Recorder struct {
	registry   *prom.Registry
	operations *prom.CounterVec
	lowStock   prom.Gauge
	workspaces prom.GaugeFunc
}

// NewRecorder crea el registro. activeWorkspaces puede ser nil.
func NewRecorder(activeWorkspaces func() int) *Recorder {
	registry := prom.NewRegistry()
	r := &Recorder{
		registry: registry,
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "panel",
			Name:      "operations_total",
			Help:      "Operaciones del panel por resultado.",
		}, []string{"operation", "outcome"}),
		lowStock: prom.NewGauge(prom.GaugeOpts{
			Namespace: "panel",
			Name:      "low_stock_products",
			Help:      "Productos con cantidad menor o igual al umbral de reposición.",
		}),
	}
	registry.MustRegister(r.operations, r.lowStock, collectors.NewGoCollector())
	if activeWorkspaces != nil {
		r.workspaces = prom.NewGaugeFunc(prom.GaugeOpts{
			Namespace: "panel",
			Name:      "active_workspaces",
			Help:      "Sesiones con vistas abiertas.",
		}, func() float64 { return float64(activeWorkspaces()) })
		registry.MustRegister(r.workspaces)
	}
	return r
}

func (r *Recorder) Observe(operation, outcome string) {
	r.operations.WithLabelValues(operation, outcome).Inc()
}

func (r *Recorder) SetLowStock(n int) {
	r.lowStock.Set(float64(n))
}

// Operations contador subyacente (pruebas).
func (r *Recorder) Operations() *prom.CounterVec { return r.operations }

// Handler exposición en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
