package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrRemote             = errors.New("falla en el servicio remoto")
	ErrPartialFailure     = errors.New("operación aplicada parcialmente")
	ErrClosed             = errors.New("la vista fue cerrada")
)

// ValidationError entrada rechazada antes de llegar al almacén remoto.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Motivos de denegación del Gate.
const (
	DenyRole = "role"
	DenySelf = "self"
)

// AuthorizationError denegación del Gate de acceso. Nunca llega al almacén remoto.
type AuthorizationError struct {
	Action  string
	Reason  string // role | self
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrForbidden).
func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// SelfProtection indica si la denegación se debe a que el objetivo es la propia identidad.
func (e *AuthorizationError) SelfProtection() bool { return e.Reason == DenySelf }

// RemoteError falla de una llamada al almacén o a un endpoint remoto. Las cachés quedan intactas.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap expone tanto ErrRemote como la causa original.
func (e *RemoteError) Unwrap() []error { return []error{ErrRemote, e.Err} }

// PartialFailureError operación de varias fases donde al menos una fase se completó y otra falló.
// No hay rollback: Completed describe lo que quedó persistido.
type PartialFailureError struct {
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("completado: %s; falló %s: %v", strings.Join(e.Completed, ", "), e.Failed, e.Err)
}

// Unwrap expone tanto ErrPartialFailure como la causa de la fase fallida.
func (e *PartialFailureError) Unwrap() []error { return []error{ErrPartialFailure, e.Err} }
