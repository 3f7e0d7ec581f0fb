package dto

import "github.com/jhoicas/panel-api/internal/domain/entity"

// StaffRequest formulario de alta/edición de personal.
type StaffRequest struct {
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	Role           string `json:"role"`
	Email          string `json:"email"`
}

// StaffResponse salida de un registro de personal.
type StaffResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	Role           string `json:"role"`
	Email          string `json:"email"`
}

// ToStaffResponse convierte la entidad a DTO.
func ToStaffResponse(s entity.StaffRecord) StaffResponse {
	return StaffResponse{
		ID:             s.ID,
		Name:           s.Name,
		LastName:       s.LastName,
		DocumentNumber: s.DocumentNumber,
		Role:           s.Role,
		Email:          s.Email,
	}
}
