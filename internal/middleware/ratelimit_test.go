package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func handlerOK() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBloqueiaAposBurst(t *testing.T) {
	store := NewLimiterStore(1, 2)
	protegido := RateLimit(store, nil)(handlerOK())

	fazer := func() int {
		req := httptest.NewRequest("POST", "/api/cadastros", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		protegido.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, fazer())
	assert.Equal(t, http.StatusOK, fazer())
	assert.Equal(t, http.StatusTooManyRequests, fazer())
}

func TestRateLimitSeparaClientesPorIP(t *testing.T) {
	store := NewLimiterStore(1, 1)
	protegido := RateLimit(store, nil)(handlerOK())

	fazer := func(addr string) int {
		req := httptest.NewRequest("POST", "/api/cadastros", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		protegido.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, fazer("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, fazer("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, fazer("10.0.0.2:1234"))
}

func TestChaveDoClienteUsaXForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.9:999"
	req.Header.Set("X-Forwarded-For", "200.100.50.25, 10.0.0.9")
	assert.Equal(t, "200.100.50.25", chaveDoCliente(req))
}

func TestChaveDoClienteFallbackRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.9:999"
	assert.Equal(t, "10.0.0.9", chaveDoCliente(req))
}
