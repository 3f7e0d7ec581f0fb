package repository

import (
	"fmt"

	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// columns columnas permitidas por recurso. Los adaptadores rechazan cualquier otra.
var columns = map[Resource][]string{
	ResourceStaff: entity.StaffColumns,
	ResourceProducts: {
		entity.ProductID, entity.ProductName, entity.ProductDescription,
		entity.ProductPurchasePrice, entity.ProductSalePrice, entity.ProductQuantity,
	},
}

// Columns devuelve las columnas del recurso.
func Columns(resource Resource) ([]string, error) {
	cols, ok := columns[resource]
	if !ok {
		return nil, fmt.Errorf("recurso desconocido: %q", resource)
	}
	return cols, nil
}

// CheckFields valida que cada campo pertenezca al recurso.
func CheckFields(resource Resource, fields ...string) error {
	cols, err := Columns(resource)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if !contains(cols, f) {
			return fmt.Errorf("columna %q no pertenece a %s", f, resource)
		}
	}
	return nil
}

// CheckRow valida las columnas de una fila o patch.
func CheckRow(resource Resource, row Row) error {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	return CheckFields(resource, keys...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
