// Package apierror define la envoltura estándar de errores de la API.
// Toda respuesta 4xx/5xx pasa por acá para mantener consistencia y no
// filtrar detalles internos (stack traces, errores de DB, etc.).
package apierror

// APIError es la envoltura canónica para respuestas de error.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError agrupa errores de validación por campo.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
