package entity

// Columnas del recurso staff en el almacén remoto.
const (
	StaffID             = "id"
	StaffName           = "name"
	StaffLastName       = "last_name"
	StaffDocumentNumber = "document_number"
	StaffRole           = "role"
	StaffEmail          = "email"
)

// StaffColumns columnas leídas por el directorio de personal.
var StaffColumns = []string{StaffID, StaffName, StaffLastName, StaffDocumentNumber, StaffRole, StaffEmail}

// StaffRecord registro de un miembro del personal. ID coincide con el ID de su credencial.
type StaffRecord struct {
	ID             string
	Name           string
	LastName       string
	DocumentNumber string // solo dígitos
	Role           string // admin, staff
	Email          string
}

// StaffCandidate datos de un nuevo miembro del personal antes de crear su credencial.
type StaffCandidate struct {
	Name           string `validate:"required"`
	LastName       string `validate:"required"`
	DocumentNumber string `validate:"required"`
	Role           string `validate:"required"`
	Email          string `validate:"required"`
}
