package domain

import (
	"fmt"

	"go.uber.org/multierr"
)

// ErrorKind clasifica las violaciones de una búsqueda. Es en sí mismo un error, de modo que
// errors.Is(err, domain.ErrInvalidOperator) funciona sobre cualquier ValidationError.
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

const (
	ErrUnsupportedIntent              ErrorKind = "unsupported intent"
	ErrMissingFieldSpecification      ErrorKind = "missing field specification"
	ErrInvalidFieldSpecification      ErrorKind = "invalid field specification"
	ErrInvalidCriterionField          ErrorKind = "invalid criterion field"
	ErrInvalidOperator                ErrorKind = "invalid operator"
	ErrMissingCriterionValue          ErrorKind = "missing criterion value"
	ErrMalformedCriterionValue        ErrorKind = "malformed criterion value"
	ErrInvalidSortField               ErrorKind = "invalid sort field"
	ErrInvalidSortOrder               ErrorKind = "invalid sort order"
	ErrInvalidPaginationSpecification ErrorKind = "invalid pagination specification"
	ErrCountQueryDerivationFailure    ErrorKind = "count query derivation failure"
)

// ValidationError es una violación concreta detectada en una búsqueda.
// Todas son errores de entrada del cliente: nunca se reintentan.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field '%s')", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// NewValidationError construye una violación con mensaje formateado.
func NewValidationError(kind ErrorKind, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationErrors aplana un error (posiblemente combinado con multierr) en sus ValidationError.
// Los errores que no son de validación se descartan.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	for _, e := range multierr.Errors(err) {
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
		}
	}
	return out
}

// IsValidationError indica si err contiene al menos una violación de búsqueda.
func IsValidationError(err error) bool {
	return len(ValidationErrors(err)) > 0
}
