package repository_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/panel-api/internal/domain/repository"
)

func TestRow_AccesoresTipados(t *testing.T) {
	r := repository.Row{
		"name":     "Arroz",
		"qty":      int64(7),
		"qty_text": "9",
		"price":    decimal.RequireFromString("1500.50"),
		"text_num": "2300",
		"missing":  nil,
	}

	assert.Equal(t, "Arroz", r.String("name"))
	assert.Equal(t, "7", r.String("qty"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, 7, r.Int("qty"))
	assert.Equal(t, 9, r.Int("qty_text"))
	assert.Equal(t, 0, r.Int("nope"))

	d, ok := r.Decimal("price")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1500.5")))

	d, ok = r.Decimal("text_num")
	assert.True(t, ok)
	assert.Equal(t, "2300", d.String())

	_, ok = r.Decimal("missing")
	assert.False(t, ok)
	assert.True(t, r.Has("missing"))
	assert.False(t, r.Has("nope"))
}

func TestFilters(t *testing.T) {
	assert.Equal(t, repository.Filter{Field: "id", Op: repository.OpEq, Value: "x"}, repository.Eq("id", "x"))
	assert.Equal(t, repository.OpLte, repository.Lte("quantity", 12).Op)
}
