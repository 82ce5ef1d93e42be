package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("wildcard allows any origin", func(t *testing.T) {
		handler := CORS([]string{"*"}, okHandler())

		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "http://127.0.0.1:5500")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers 204 without hitting handlers", func(t *testing.T) {
		handler := CORS([]string{"*"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("preflight should not reach the next handler")
		}))

		req := httptest.NewRequest(http.MethodOptions, "/students", nil)
		req.Header.Set("Origin", "http://127.0.0.1:5500")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("named origin is echoed back", func(t *testing.T) {
		handler := CORS([]string{"https://directory.example.com"}, okHandler())

		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "https://directory.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://directory.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no allow header", func(t *testing.T) {
		handler := CORS([]string{"https://directory.example.com"}, okHandler())

		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitDisabled(t *testing.T) {
	limiter, err := app.NewRateLimiter(&app.Config{})
	assert.NoError(t, err)

	handler := RateLimit(limiter, okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
