package cadastro

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salvo-app/api-cadastro/internal/viacep"
)

func novoHandlerDeTeste(store Store) (*Handler, *mux.Router) {
	h := NewHandler(NewPipeline(store), store, viacep.NewClient(), nil, nil, "teste")
	r := mux.NewRouter()
	r.HandleFunc("/api/cadastros", h.Criar).Methods("POST")
	r.HandleFunc("/api/cadastros/verificar-whatsapp", h.VerificarWhatsApp).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/api/cadastros", h.Listar).Methods("GET")
	r.HandleFunc("/api/cadastros/stats", h.Estatisticas).Methods("GET")
	return h, r
}

const corpoValido = `{
	"nome": "Padaria Sol",
	"categoria": "Padaria",
	"whatsapp": "(11) 98765-4321",
	"email": "a@b.com",
	"cep": "01310-100",
	"endereco": "Av. X",
	"complemento": "loja 2",
	"cidade": "São Paulo",
	"uf": "SP",
	"aceiteLGPD": true
}`

func TestCriarCadastro(t *testing.T) {
	store := &storeFalso{}
	_, r := novoHandlerDeTeste(store)

	req := httptest.NewRequest("POST", "/api/cadastros", strings.NewReader(corpoValido))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success  bool             `json:"success"`
		ID       string           `json:"id"`
		Cadastro CadastroResponse `json:"cadastro"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "(11) 98765-4321", resp.Cadastro.Whatsapp, "resposta usa a forma mascarada")
	assert.Equal(t, "01310-100", resp.Cadastro.CEP)
}

func TestCriarCadastroInvalido(t *testing.T) {
	store := &storeFalso{}
	_, r := novoHandlerDeTeste(store)

	corpo := strings.Replace(corpoValido, "a@b.com", "foo@bar", 1)
	req := httptest.NewRequest("POST", "/api/cadastros", strings.NewReader(corpo))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Erros   map[string]string `json:"erros"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Len(t, resp.Erros, 1)
	assert.Contains(t, resp.Erros, "email")
	assert.Zero(t, store.chamadasSalvar)
}

func TestCriarCadastroDuplicado(t *testing.T) {
	store := &storeFalso{existentes: map[string]bool{"11987654321": true}}
	_, r := novoHandlerDeTeste(store)

	req := httptest.NewRequest("POST", "/api/cadastros", strings.NewReader(corpoValido))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "já está cadastrado")
}

func TestCriarCadastroPayloadQuebrado(t *testing.T) {
	_, r := novoHandlerDeTeste(&storeFalso{})

	req := httptest.NewRequest("POST", "/api/cadastros", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificarWhatsApp(t *testing.T) {
	store := &storeFalso{existentes: map[string]bool{"11987654321": true}}
	_, r := novoHandlerDeTeste(store)

	tests := []struct {
		corpo  string
		status int
		exists bool
	}{
		{`{"whatsapp": "(11) 98765-4321"}`, http.StatusOK, true},
		{`{"whatsapp": "(11) 3333-4444"}`, http.StatusOK, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/api/cadastros/verificar-whatsapp", strings.NewReader(tt.corpo))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, tt.status, rec.Code)
		var resp struct {
			Exists bool `json:"exists"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.exists, resp.Exists)
	}
}

func TestVerificarWhatsAppInvalido(t *testing.T) {
	_, r := novoHandlerDeTeste(&storeFalso{})

	req := httptest.NewRequest("POST", "/api/cadastros/verificar-whatsapp", strings.NewReader(`{"whatsapp": "123"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// A consulta indisponível degrada para exists=false: o store decide na
// gravação.
func TestVerificarWhatsAppFalhaDegradaParaNaoEncontrado(t *testing.T) {
	store := &storeFalso{erroExiste: assert.AnError}
	_, r := novoHandlerDeTeste(store)

	req := httptest.NewRequest("POST", "/api/cadastros/verificar-whatsapp", strings.NewReader(`{"whatsapp": "(11) 98765-4321"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exists":false`)
}

func TestHealth(t *testing.T) {
	_, r := novoHandlerDeTeste(&storeFalso{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"service":"salvo-api"`)
}

func TestListarEEstatisticas(t *testing.T) {
	store := &storeFalso{}
	_, r := novoHandlerDeTeste(store)

	criar := httptest.NewRequest("POST", "/api/cadastros", strings.NewReader(corpoValido))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, criar)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cadastros", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Padaria Sol")
	assert.Contains(t, rec.Body.String(), `"id":"1"`, "a listagem carrega o identificador devolvido na gravação")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cadastros/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), `"pf":1`)
}

type contadorFalso struct {
	permitidos, bloqueados int64
}

func (c *contadorFalso) Totais(ctx context.Context) (int64, int64, error) {
	return c.permitidos, c.bloqueados, nil
}

func TestEstatisticasIncluemContadoresDeTrafego(t *testing.T) {
	store := &storeFalso{}
	h := NewHandler(NewPipeline(store), store, viacep.NewClient(), nil, &contadorFalso{permitidos: 7, bloqueados: 2}, "teste")

	rec := httptest.NewRecorder()
	h.Estatisticas(rec, httptest.NewRequest("GET", "/api/cadastros/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"permitidos":7`)
	assert.Contains(t, rec.Body.String(), `"bloqueados":2`)
}

// Consultas disparadas pelos handlers chegam ao store com prazo definido.
func TestConsultasDoStoreCarregamPrazo(t *testing.T) {
	store := &storeFalso{}
	_, r := novoHandlerDeTeste(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.viuPrazo)

	store.viuPrazo = false
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cadastros", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.viuPrazo)

	store.viuPrazo = false
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/cadastros/verificar-whatsapp", strings.NewReader(`{"whatsapp": "(11) 98765-4321"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.viuPrazo)
}
