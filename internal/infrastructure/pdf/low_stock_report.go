// Package pdf genera el reporte de reposición (productos con bajo stock).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + umbral      │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Cantidad | Faltante | Estado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos en reposición / agotados                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LowStockReport genera el PDF de reposición con Maroto v2.
type LowStockReport struct {
	title string
}

// NewLowStockReport construye el generador; title encabeza el documento (nombre de la app).
func NewLowStockReport(title string) *LowStockReport {
	if title == "" {
		title = "Panel de inventario"
	}
	return &LowStockReport{title: title}
}

// Generate genera el PDF y devuelve sus bytes. items debe venir ordenado.
func (g *LowStockReport) Generate(_ context.Context, items []entity.Product, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de reposición", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(items) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("No hay productos con bajo stock.", props.Text{Size: 10, Top: 4, Align: align.Center, Color: colorGray}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(items)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Productos con cantidad menor o igual a %d", entity.LowStockThreshold), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Cantidad", 2, align.Right),
		h("Faltante", 1, align.Right),
		h("Estado", 2, align.Center),
	)
}

func tableRows(items []entity.Product) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, p := range items {
		status, color := "Bajo stock", colorGray
		if p.Quantity == 0 {
			status, color = "Agotado", colorDanger
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(p.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strconv.Itoa(shortfall(p.Quantity)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(status, props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
		))
	}
	return rows
}

func summaryRow(items []entity.Product) core.Row {
	out := 0
	for _, p := range items {
		if p.Quantity == 0 {
			out++
		}
	}
	return row.New(12).Add(
		col.New(6),
		col.New(6).Add(
			text.New(fmt.Sprintf("Productos en reposición: %d", len(items)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("Agotados: %d", out), props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorDanger,
			}),
		),
	)
}

// shortfall unidades que faltan para superar el umbral.
func shortfall(qty int) int {
	return entity.LowStockThreshold + 1 - qty
}
