package staff

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

const (
	msgRequired      = "Todos los campos son obligatorios"
	msgNameDigits    = "Nombre y apellido no deben contener números."
	msgDocumentOnly  = "El documento debe contener solo números."
	msgEmailAt       = "El correo debe contener el símbolo '@'."
	msgRoleNotListed = "El rol debe ser admin o staff."
)

var (
	validate      = validator.New()
	hasDigit      = regexp.MustCompile(`\d`)
	documentDigit = regexp.MustCompile(`^\d+$`)
)

// ValidateCandidate aplica las reglas en orden y se detiene en la primera que falla.
func ValidateCandidate(c entity.StaffCandidate) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewValidationError(verrs[0].Field(), msgRequired)
		}
		return domain.NewValidationError("candidate", msgRequired)
	}
	if hasDigit.MatchString(c.Name) || hasDigit.MatchString(c.LastName) {
		return domain.NewValidationError("name", msgNameDigits)
	}
	if !documentDigit.MatchString(c.DocumentNumber) {
		return domain.NewValidationError("document_number", msgDocumentOnly)
	}
	if !strings.Contains(c.Email, "@") {
		return domain.NewValidationError("email", msgEmailAt)
	}
	if !entity.ValidRole(c.Role) {
		return domain.NewValidationError("role", msgRoleNotListed)
	}
	return nil
}

func normalizeCandidate(c entity.StaffCandidate) entity.StaffCandidate {
	return entity.StaffCandidate{
		Name:           strings.TrimSpace(c.Name),
		LastName:       strings.TrimSpace(c.LastName),
		DocumentNumber: strings.TrimSpace(c.DocumentNumber),
		Role:           entity.NormalizeRole(strings.TrimSpace(c.Role)),
		Email:          strings.TrimSpace(c.Email),
	}
}

// candidateRow arma la fila; con id vacío sirve como patch de edición.
func candidateRow(id string, c entity.StaffCandidate) repository.Row {
	row := repository.Row{
		entity.StaffName:           c.Name,
		entity.StaffLastName:       c.LastName,
		entity.StaffDocumentNumber: c.DocumentNumber,
		entity.StaffRole:           c.Role,
		entity.StaffEmail:          c.Email,
	}
	if id != "" {
		row[entity.StaffID] = id
	}
	return row
}

func recordFromRow(r repository.Row) entity.StaffRecord {
	return entity.StaffRecord{
		ID:             r.String(entity.StaffID),
		Name:           r.String(entity.StaffName),
		LastName:       r.String(entity.StaffLastName),
		DocumentNumber: r.String(entity.StaffDocumentNumber),
		Role:           entity.NormalizeRole(r.String(entity.StaffRole)),
		Email:          r.String(entity.StaffEmail),
	}
}

func recordFields(s entity.StaffRecord) []string {
	return []string{s.ID, s.Name, s.LastName, s.DocumentNumber, s.Role, s.Email}
}
