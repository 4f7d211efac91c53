package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func protectedHandler(t *testing.T, cfg ServiceTokenConfig) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return ServiceToken(cfg, logger)(ok)
}

func TestServiceTokenMissingHeaders(t *testing.T) {
	h := protectedHandler(t, ServiceTokenConfig{ClientID: "id", ClientSecret: "secret", Enabled: true})

	req := httptest.NewRequest(http.MethodPost, "/sync/full", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing CF service-token headers")
}

func TestServiceTokenInvalidCredentials(t *testing.T) {
	h := protectedHandler(t, ServiceTokenConfig{ClientID: "id", ClientSecret: "secret", Enabled: true})

	req := httptest.NewRequest(http.MethodPost, "/sync/full", nil)
	req.Header.Set("Cf-Access-Client-Id", "wrong_id")
	req.Header.Set("Cf-Access-Client-Secret", "wrong_secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid service token")
}

func TestServiceTokenValidCredentials(t *testing.T) {
	h := protectedHandler(t, ServiceTokenConfig{ClientID: "test_id", ClientSecret: "test_secret", Enabled: true})

	req := httptest.NewRequest(http.MethodPost, "/sync/full", nil)
	req.Header.Set("Cf-Access-Client-Id", "test_id")
	req.Header.Set("Cf-Access-Client-Secret", "test_secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceTokenDisabledPassesThrough(t *testing.T) {
	h := protectedHandler(t, ServiceTokenConfig{Enabled: false})

	req := httptest.NewRequest(http.MethodPost, "/sync/full", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(w, req)

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, w.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight must not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	w := httptest.NewRecorder()
	CORS(inner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
