package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsotosa-ops/oasis-backend/internal/authz"
	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
)

func TestFromError_MapeoDeDominio(t *testing.T) {
	cases := []struct {
		name       string
		in         error
		wantCode   string
		wantStatus int
	}{
		{"unauthorized", identity.ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
		{"forbidden", authz.ErrForbidden, "forbidden", http.StatusForbidden},
		{"not found", repository.ErrNotFound, "not_found", http.StatusNotFound},
		{"conflict", repository.ErrConflict, "conflict", http.StatusConflict},
		{"invalid input", repository.ErrInvalidInput, "validation_error", http.StatusUnprocessableEntity},
		{"rls", repository.ErrInsufficientPrivilege, "forbidden", http.StatusForbidden},
		{"desconocido", errors.New("boom"), "internal_error", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.in)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, tc.wantStatus, got.Status)
		})
	}
}

func TestFromError_PreservaMensajeDeAutorizacion(t *testing.T) {
	got := FromError(authz.ErrNotMember)
	assert.Equal(t, http.StatusForbidden, got.Status)
	assert.Equal(t, "no eres miembro de esta organización", got.Message)
}

func TestFromError_ErrorDesconocidoNoFiltraDetalles(t *testing.T) {
	got := FromError(fmt.Errorf("pg: contraseña inválida para rol app"))
	assert.Equal(t, "internal_error", got.Code)
	assert.NotContains(t, got.Message, "contraseña")
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, repository.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func TestFromError_APIErrorPasaIntacto(t *testing.T) {
	in := ErrRateLimited
	got := FromError(fmt.Errorf("wrap: %w", in))
	assert.Equal(t, in, got)
}
