// Package apierrors define el error de API y el envelope de respuesta de
// error. Todas las respuestas de error del servicio pasan por acá.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
)

// Respuestas estándar (mensajes de cara al usuario en español).

var (
	ErrBadRequest   = &APIError{Code: "bad_request", Message: "Solicitud inválida", Status: http.StatusBadRequest}
	ErrInvalidJSON  = &APIError{Code: "invalid_json", Message: "JSON inválido", Status: http.StatusBadRequest}
	ErrUnauthorized = &APIError{Code: "unauthorized", Message: "No autenticado", Status: http.StatusUnauthorized}
	ErrForbidden    = &APIError{Code: "forbidden", Message: "No tienes permisos para esta operación", Status: http.StatusForbidden}
	ErrNotFound     = &APIError{Code: "not_found", Message: "Recurso no encontrado", Status: http.StatusNotFound}
	ErrConflict     = &APIError{Code: "conflict", Message: "El recurso ya existe o está en conflicto", Status: http.StatusConflict}
	ErrValidation   = &APIError{Code: "validation_error", Message: "Datos inválidos", Status: http.StatusUnprocessableEntity}
	ErrRateLimited  = &APIError{Code: "rate_limited", Message: "Demasiadas solicitudes, intenta más tarde", Status: http.StatusTooManyRequests}
	ErrInternal     = &APIError{Code: "internal_error", Message: "Error interno del servidor", Status: http.StatusInternalServerError}
)

// APIError es un error de API con código estable y status HTTP.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

// WithMessage devuelve una copia con otro mensaje (mismo código y status).
func (e *APIError) WithMessage(msg string) *APIError {
	return &APIError{Code: e.Code, Message: msg, Status: e.Status}
}

// envelope es la forma fija de toda respuesta de error:
// {"success": false, "error": {"code": "...", "message": "..."}}
type envelope struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// FromError traduce errores de dominio al APIError correspondiente.
// Los mensajes de los errores de autorización se preservan: son de cara
// al usuario. Todo lo no reconocido colapsa a 500 sin filtrar detalles.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		// se quita el prefijo del sentinel; el resto es el mensaje al usuario
		if msg := strings.TrimPrefix(err.Error(), "forbidden: "); msg != "" && msg != "forbidden" {
			return ErrForbidden.WithMessage(msg)
		}
		return ErrForbidden
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidInput):
		return ErrValidation
	case errors.Is(err, repository.ErrInsufficientPrivilege):
		return ErrForbidden
	}
	return ErrInternal
}

// WriteError escribe el envelope de error en la respuesta.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := FromError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: apiErr})
}
