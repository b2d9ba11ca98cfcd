package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*TokenClaims, error) {
	return s.claims, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	mw := RequireAuth(&stubValidator{}, newTestLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/deliveries", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	mw := RequireAuth(&stubValidator{err: fmt.Errorf("signature invalid")}, newTestLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/deliveries", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInjectsClaims(t *testing.T) {
	claims := &TokenClaims{UserID: "u-1", Username: "operador1", Role: "operator"}
	mw := RequireAuth(&stubValidator{claims: claims}, newTestLogger())

	var gotUser, gotRole string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/deliveries", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", gotUser)
	assert.Equal(t, "operator", gotRole)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(newTestLogger(), "admin", "editor")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Editor passes.
	r := httptest.NewRequest(http.MethodPost, "/api/content", nil)
	r = r.WithContext(WithClaims(r.Context(), &TokenClaims{UserID: "u-2", Role: "editor"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Operator is rejected.
	r = httptest.NewRequest(http.MethodPost, "/api/content", nil)
	r = r.WithContext(WithClaims(r.Context(), &TokenClaims{UserID: "u-3", Role: "operator"}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Missing claims are rejected.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/content", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClientMetadata(t *testing.T) {
	var info ClientInfo
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info = GetClientInfo(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:52100"
	r.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "10.1.2.3", info.IP)
	assert.Contains(t, info.Browser, "Chrome")
	assert.Equal(t, "Windows 10", info.OS)
}

func TestClientMetadataForwardedFor(t *testing.T) {
	var info ClientInfo
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info = GetClientInfo(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "190.56.1.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "190.56.1.9", info.IP)
}
