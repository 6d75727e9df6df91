package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrNoRoles         = errors.New("la cuenta no tiene permisos asignados")
	ErrCompanyRequired = errors.New("seleccione una empresa")
	ErrSession         = errors.New("sesión inválida")
	ErrNoApprover      = errors.New("no tiene un aprobador asignado")
	ErrWalletNotFound  = errors.New("el empleado no tiene billetera de caja menor")
	ErrNoChanges       = errors.New("no se detectaron cambios")
)

// ValidationError error de validación con mensaje para el usuario; es ErrInvalidInput.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// ConflictError transición rechazada por el estado actual; es ErrConflict.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Is permite errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict construye un ConflictError.
func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}
