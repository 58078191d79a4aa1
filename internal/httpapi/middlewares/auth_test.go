package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/types"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
)

type fakeVerifier struct {
	principal types.Principal
	err       error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (types.Principal, error) {
	return f.principal, f.err
}

func okHandler(t *testing.T, captured *types.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		assert.True(t, ok)
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_TokenValido(t *testing.T) {
	var got types.Principal
	v := &fakeVerifier{principal: types.Principal{ID: "user-1", IsPlatformAdmin: true}}
	h := RequireAuth(v)(okHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	req.Header.Set("Authorization", "Bearer token-valido")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.ID)
	assert.True(t, got.IsPlatformAdmin)
}

func TestRequireAuth_SinHeader(t *testing.T) {
	v := &fakeVerifier{principal: types.Principal{ID: "user-1"}}
	h := RequireAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debería llegar al handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestRequireAuth_TokenInvalido(t *testing.T) {
	v := &fakeVerifier{err: identity.ErrUnauthorized}
	h := RequireAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debería llegar al handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	req.Header.Set("Authorization", "Bearer basura")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"unauthorized","message":"No autenticado"}}`, rec.Body.String())
}

func TestRequireAuth_EsquemaNoBearer(t *testing.T) {
	v := &fakeVerifier{principal: types.Principal{ID: "user-1"}}
	h := RequireAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debería llegar al handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
