package cadastro

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"github.com/salvo-app/api-cadastro/internal/mascara"
	"github.com/salvo-app/api-cadastro/internal/metrics"
	"github.com/salvo-app/api-cadastro/internal/validacao"
	"github.com/salvo-app/api-cadastro/internal/viacep"
)

// Consultas ao store disparadas pelos handlers carregam o mesmo prazo das
// chamadas do pipeline.
const tempoLimiteConsulta = 10 * time.Second

// ContadorTrafego expõe os acumulados do rate limit para as estatísticas.
type ContadorTrafego interface {
	Totais(ctx context.Context) (permitidos, bloqueados int64, err error)
}

// Handler encapsula o pipeline, o store e o cliente ViaCEP.
type Handler struct {
	Pipeline *Pipeline
	Store    Store
	ViaCEP   *viacep.Client
	Metrics  *metrics.CadastroMetrics
	Contador ContadorTrafego
	Backend  string
}

func NewHandler(pipeline *Pipeline, store Store, cep *viacep.Client, m *metrics.CadastroMetrics, contador ContadorTrafego, backend string) *Handler {
	return &Handler{
		Pipeline: pipeline,
		Store:    store,
		ViaCEP:   cep,
		Metrics:  m,
		Contador: contador,
		Backend:  backend,
	}
}

type verificarWhatsAppRequest struct {
	Whatsapp string `json:"whatsapp"`
}

// Criar recebe a submissão do formulário e executa o pipeline.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CriarCadastroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		escreverJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"erro":    "payload inválido",
		})
		return
	}

	resultado, err := h.Pipeline.Processar(r.Context(), &req)
	if err != nil {
		h.responderErro(w, err)
		return
	}

	h.Metrics.ObservarCriado(resultado.Cadastro.Tipo, h.Backend)
	escreverJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"id":       resultado.ID,
		"cadastro": MontarCadastroResponse(resultado.Cadastro, resultado.ID),
	})
}

func (h *Handler) responderErro(w http.ResponseWriter, err error) {
	var ev *ErroValidacao
	var rede *ErroRede

	switch {
	case errors.As(err, &ev):
		h.Metrics.ObservarRejeitado("validacao")
		escreverJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"erros":   ev.Campos,
		})
	case errors.Is(err, ErrWhatsAppJaCadastrado):
		h.Metrics.ObservarRejeitado("duplicado")
		escreverJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"erro":    "Este WhatsApp já está cadastrado",
		})
	case errors.As(err, &rede):
		h.Metrics.ObservarRejeitado("rede")
		log.Printf("cadastro: falha de rede na persistência: %v", err)
		escreverJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"erro":    "Erro ao realizar cadastro. Tente novamente.",
		})
	default:
		h.Metrics.ObservarRejeitado("servidor")
		log.Printf("cadastro: falha ao salvar: %v", err)
		escreverJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"erro":    "Erro ao realizar cadastro. Tente novamente.",
		})
	}
}

// VerificarWhatsApp responde se o número já está cadastrado. Falha de
// consulta degrada para exists=false: a checagem é só um atalho de UX e a
// unicidade é garantida na gravação.
func (h *Handler) VerificarWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req verificarWhatsAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		escreverJSON(w, http.StatusBadRequest, map[string]any{"erro": "payload inválido"})
		return
	}
	if !validacao.Telefone(req.Whatsapp) {
		escreverJSON(w, http.StatusBadRequest, map[string]any{"erro": "Digite um WhatsApp válido"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tempoLimiteConsulta)
	defer cancel()

	existe, err := h.Store.ExistePorWhatsApp(ctx, mascara.SomenteDigitos(req.Whatsapp))
	if err != nil {
		log.Printf("cadastro: verificação de whatsapp falhou: %v", err)
		existe = false
	}
	escreverJSON(w, http.StatusOK, map[string]any{"exists": existe})
}

// ConsultarCEP faz proxy da consulta ViaCEP para o autofill do formulário.
func (h *Handler) ConsultarCEP(w http.ResponseWriter, r *http.Request) {
	cep := mux.Vars(r)["cep"]

	end, err := h.ViaCEP.Consultar(r.Context(), cep)
	switch {
	case errors.Is(err, viacep.ErrCEPInvalido):
		escreverJSON(w, http.StatusBadRequest, map[string]any{"success": false, "erro": "CEP deve ter 8 dígitos"})
	case errors.Is(err, viacep.ErrCEPNaoEncontrado):
		escreverJSON(w, http.StatusNotFound, map[string]any{"success": false, "erro": "CEP não encontrado"})
	case err != nil:
		log.Printf("cadastro: consulta viacep falhou: %v", err)
		escreverJSON(w, http.StatusBadGateway, map[string]any{"success": false, "erro": "Serviço de CEP indisponível"})
	default:
		escreverJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]string{
				"address":      end.Logradouro,
				"neighborhood": end.Bairro,
				"city":         end.Localidade,
				"uf":           end.UF,
				"cep":          end.CEP,
			},
		})
	}
}

// Listar devolve os cadastros para o painel admin, com filtros opcionais.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), tempoLimiteConsulta)
	defer cancel()

	cadastros, err := h.Store.Listar(ctx, filtroDaQuery(r))
	if err != nil {
		log.Printf("cadastro: falha ao listar: %v", err)
		http.Error(w, "erro ao listar cadastros", http.StatusInternalServerError)
		return
	}

	resp := make([]CadastroResponse, 0, len(cadastros))
	for i := range cadastros {
		resp = append(resp, MontarCadastroResponse(&cadastros[i], cadastros[i].RegistroID))
	}
	escreverJSON(w, http.StatusOK, map[string]any{"success": true, "cadastros": resp})
}

// Estatisticas devolve os totais por tipo e, quando o contador está
// configurado, os acumulados do rate limit.
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), tempoLimiteConsulta)
	defer cancel()

	stats, err := h.Store.Contar(ctx)
	if err != nil {
		log.Printf("cadastro: falha ao contar: %v", err)
		http.Error(w, "erro ao obter estatísticas", http.StatusInternalServerError)
		return
	}

	corpo := map[string]any{"success": true, "stats": stats}
	if h.Contador != nil {
		permitidos, bloqueados, err := h.Contador.Totais(ctx)
		if err != nil {
			log.Printf("cadastro: falha ao consultar contadores de tráfego: %v", err)
		} else {
			corpo["rateLimit"] = map[string]int64{
				"permitidos": permitidos,
				"bloqueados": bloqueados,
			}
		}
	}
	escreverJSON(w, http.StatusOK, corpo)
}

// Exportar gera uma planilha Excel com os cadastros filtrados.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), tempoLimiteConsulta)
	defer cancel()

	cadastros, err := h.Store.Listar(ctx, filtroDaQuery(r))
	if err != nil {
		log.Printf("cadastro: falha ao exportar: %v", err)
		http.Error(w, "erro ao exportar cadastros", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const aba = "Cadastros"
	f.SetSheetName("Sheet1", aba)
	cabecalho := []string{"ID", "Nome", "Categoria", "WhatsApp", "E-mail", "CNPJ", "CEP", "Endereço", "Complemento", "Cidade", "UF", "Tipo", "Status", "Criado em"}
	for i, titulo := range cabecalho {
		celula, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(aba, celula, titulo)
	}

	for linha, c := range cadastros {
		valores := []any{
			c.RegistroID,
			c.Nome,
			c.Categoria,
			mascara.Telefone(c.Whatsapp),
			c.Email,
			mascara.CNPJ(c.CNPJ),
			mascara.CEP(c.CEP),
			c.Endereco,
			c.Complemento,
			c.Cidade,
			c.UF,
			c.Tipo,
			c.Status,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range valores {
			celula, _ := excelize.CoordinatesToCellName(col+1, linha+2)
			f.SetCellValue(aba, celula, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cadastros.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("cadastro: falha ao escrever planilha: %v", err)
	}
}

// Health reporta a disponibilidade do serviço e do store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), tempoLimiteConsulta)
	defer cancel()

	stats, err := h.Store.Contar(ctx)
	if err != nil {
		log.Printf("cadastro: health check com store indisponível: %v", err)
		escreverJSON(w, http.StatusOK, map[string]any{
			"status":  "degraded",
			"service": "salvo-api",
		})
		return
	}
	escreverJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "salvo-api",
		"cadastros": stats.Total,
	})
}

func filtroDaQuery(r *http.Request) Filtro {
	filtro := Filtro{
		Categoria: r.URL.Query().Get("categoria"),
		Status:    r.URL.Query().Get("status"),
	}
	if limite, err := strconv.Atoi(r.URL.Query().Get("limite")); err == nil && limite > 0 {
		filtro.Limite = limite
	}
	return filtro
}

func escreverJSON(w http.ResponseWriter, status int, corpo any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(corpo)
}
