package inventory

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

const (
	msgRequiredFields = "Todos los campos son obligatorios"
	msgNumericFields  = "Precios y cantidad deben contener solo números."
)

func productFromRow(r repository.Row, withPurchasePrice bool) entity.Product {
	p := entity.Product{
		ID:          r.String(entity.ProductID),
		Name:        r.String(entity.ProductName),
		Description: r.String(entity.ProductDescription),
		Quantity:    r.Int(entity.ProductQuantity),
	}
	if d, ok := r.Decimal(entity.ProductSalePrice); ok {
		p.SalePrice = d
	}
	if withPurchasePrice {
		if d, ok := r.Decimal(entity.ProductPurchasePrice); ok {
			p.PurchasePrice = &d
		}
	}
	return p
}

// productFields forma de texto de cada campo visible, para la búsqueda.
func productFields(p entity.Product) []string {
	fields := []string{p.ID, p.Name, p.Description, p.SalePrice.String(), strconv.Itoa(p.Quantity)}
	if p.PurchasePrice != nil {
		fields = append(fields, p.PurchasePrice.String())
	}
	return fields
}

// validateDraft valida un formulario de producto. Con withQuantity=false (edición) la cantidad se ignora.
func validateDraft(d entity.ProductDraft, withQuantity bool) (repository.Row, error) {
	name := strings.TrimSpace(d.Name)
	desc := strings.TrimSpace(d.Description)
	purchase := strings.TrimSpace(d.PurchasePrice)
	sale := strings.TrimSpace(d.SalePrice)
	qty := strings.TrimSpace(d.Quantity)

	if name == "" || desc == "" || purchase == "" || sale == "" || (withQuantity && qty == "") {
		return nil, domain.NewValidationError("product", msgRequiredFields)
	}
	numeric := []string{purchase, sale}
	if withQuantity {
		numeric = append(numeric, qty)
	}
	for _, v := range numeric {
		if !digitsOnly.MatchString(v) {
			return nil, domain.NewValidationError("product", msgNumericFields)
		}
	}

	row := repository.Row{
		entity.ProductName:          name,
		entity.ProductDescription:   desc,
		entity.ProductPurchasePrice: decimal.RequireFromString(purchase),
		entity.ProductSalePrice:     decimal.RequireFromString(sale),
	}
	if withQuantity {
		n, err := strconv.Atoi(qty)
		if err != nil {
			return nil, domain.NewValidationError("quantity", msgNumericFields)
		}
		row[entity.ProductQuantity] = n
	}
	return row, nil
}

// ParseDelta interpreta el delta capturado en el formulario. Solo acepta enteros
// positivos hasta entity.MaxQuantity.
func ParseDelta(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 || n > entity.MaxQuantity {
		return 0, domain.NewValidationError("delta", msgInvalidQuantity)
	}
	return n, nil
}
