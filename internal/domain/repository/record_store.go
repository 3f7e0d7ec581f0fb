package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Resource colección del almacén remoto.
type Resource string

const (
	ResourceStaff    Resource = "staff"
	ResourceProducts Resource = "products"
)

// Operator operador de un filtro.
type Operator string

const (
	OpEq  Operator = "eq"
	OpLte Operator = "lte"
)

// Filter condición sobre un campo.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Eq filtro de igualdad.
func Eq(field string, value any) Filter { return Filter{Field: field, Op: OpEq, Value: value} }

// Lte filtro menor o igual.
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }

// Row fila genérica: nombre de columna -> valor tal como lo entrega el driver.
type Row map[string]any

// Has indica si la columna viene en la fila.
func (r Row) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String devuelve la columna como texto ("" si falta o es NULL).
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int devuelve la columna como entero (0 si falta o no es numérica).
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case decimal.Decimal:
		return int(v.IntPart())
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	default:
		return 0
	}
}

// Decimal devuelve la columna como decimal. ok es false si falta, es NULL o no se puede interpretar.
func (r Row) Decimal(key string) (decimal.Decimal, bool) {
	switch v := r[key].(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case int64:
		return decimal.NewFromInt(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		return d, err == nil
	default:
		d, err := decimal.NewFromString(fmt.Sprint(v))
		return d, err == nil
	}
}

// RecordStore puerto genérico del almacén remoto de registros (DIP).
// Insert genera el id cuando la fila no lo trae y lo devuelve.
type RecordStore interface {
	Select(ctx context.Context, resource Resource, fields []string, filters ...Filter) ([]Row, error)
	Insert(ctx context.Context, resource Resource, row Row) (string, error)
	Update(ctx context.Context, resource Resource, id string, patch Row) error
	Delete(ctx context.Context, resource Resource, id string) error
}
