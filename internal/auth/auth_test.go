package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var segredo = []byte("segredo-de-teste")

func TestGerarEValidarToken(t *testing.T) {
	token, err := GerarToken(segredo, "admin")
	require.NoError(t, err)

	claims, err := ParseAndValidate(segredo, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Login)
	assert.True(t, claims.IsAdmin)
}

func TestTokenComSegredoErrado(t *testing.T) {
	token, err := GerarToken(segredo, "admin")
	require.NoError(t, err)

	_, err = ParseAndValidate([]byte("outro-segredo"), token)
	assert.Error(t, err)
}

func TestGerarTokenSemSegredo(t *testing.T) {
	_, err := GerarToken(nil, "admin")
	assert.Error(t, err)
}

func TestCheckSenha(t *testing.T) {
	hash, err := HashSenha("s3nh4-f0rte")
	require.NoError(t, err)
	assert.True(t, CheckSenha(hash, "s3nh4-f0rte"))
	assert.False(t, CheckSenha(hash, "errada"))
}

func TestMiddlewareAutenticacao(t *testing.T) {
	protegido := MiddlewareAutenticacao(segredo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin", r.Context().Value(CtxLogin))
		w.WriteHeader(http.StatusOK)
	}))

	// sem token
	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cadastros", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token inválido
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/cadastros", nil)
	req.Header.Set("Authorization", "Bearer lixo")
	protegido.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token válido
	token, err := GerarToken(segredo, "admin")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/cadastros", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protegido.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginAdmin(t *testing.T) {
	hash, err := HashSenha("s3nh4")
	require.NoError(t, err)
	h := NewHandler(segredo, "admin", hash)

	rec := httptest.NewRecorder()
	h.LoginAdmin(rec, httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"login":"admin","password":"s3nh4"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	rec = httptest.NewRecorder()
	h.LoginAdmin(rec, httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"login":"admin","password":"errada"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
