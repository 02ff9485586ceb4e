// Package errors define la taxonomía de errores HTTP del servicio.
//
// Todo error que llega al borde se rinde como JSON uniforme
// {"error": "<mensaje>"} — nunca se devuelve salida binaria parcial ni
// stack traces al caller.
package errors

import (
	"fmt"
	"net/http"
)

// AppError es el error estándar de la capa HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, solo para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder a la causa original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail agrega detalle al error. Devuelve una COPIA para no mutar
// las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	out := *e
	out.Detail = detail
	return &out
}

// WithCause agrega la causa original. Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	out := *e
	out.Err = err
	return &out
}

// FromError convierte un error genérico en AppError; lo que no matchea
// se trata como error interno conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// =================================================================================
// TAXONOMÍA
// =================================================================================

var (
	// ErrUnauthorized: credencial ausente, desconocida o que no matchea.
	// El mensaje es deliberadamente único para no distinguir entre
	// "no existe" y "no alcanza" (no dar pistas a un atacante).
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Missing or invalid API key",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrNotConfigured: administración de keys sin master key configurada.
	ErrNotConfigured = &AppError{
		Code:       "NOT_CONFIGURED",
		Message:    "API key management is not configured (set API_KEY)",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	// ErrConversionFailed: fallo de codec o de dispatch.
	ErrConversionFailed = &AppError{
		Code:       "CONVERSION_FAILED",
		Message:    "conversion failed",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrStorage: no se pudo persistir el store de keys; la key NO quedó creada.
	ErrStorage = &AppError{
		Code:       "STORAGE",
		Message:    "could not persist API key",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrMethodNotAllowed: método HTTP no soportado por la ruta.
	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	// ErrNotFound: ruta inexistente.
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "not found",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrInternal: fallback para errores no clasificados.
	ErrInternal = &AppError{
		Code:       "INTERNAL",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// Validation construye un error de validación 400 con mensaje específico.
// A diferencia del resto de la taxonomía, acá el mensaje ES el detalle:
// le dice al caller exactamente qué campo falta o está mal.
func Validation(msg string) *AppError {
	return &AppError{
		Code:       "VALIDATION",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}
