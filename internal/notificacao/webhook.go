// Package notificacao faz os envios de melhor esforço disparados após um
// cadastro ser salvo: cópia para webhook externo e e-mail de boas-vindas.
// Nenhuma falha aqui chega ao usuário nem altera o resultado da submissão.
package notificacao

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/salvo-app/api-cadastro/internal/cadastro"
)

// Webhook envia uma cópia do cadastro salvo para uma URL de integração.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook cria o notificador; com URL vazia os envios viram no-op.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (wh *Webhook) NotificarCadastro(c *cadastro.Cadastro, id string) {
	if wh.url == "" {
		return
	}

	// O destino recebe o registro completo: a forma mascarada de exibição
	// mais os metadados de captura que ela não carrega.
	payload := struct {
		cadastro.CadastroResponse
		UTMSource   string   `json:"utmSource"`
		UTMMedium   string   `json:"utmMedium"`
		UTMCampaign string   `json:"utmCampaign"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
		Source      string   `json:"source"`
	}{
		CadastroResponse: cadastro.MontarCadastroResponse(c, id),
		UTMSource:        c.UTMSource,
		UTMMedium:        c.UTMMedium,
		UTMCampaign:      c.UTMCampaign,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Source:           c.Source,
	}
	body, _ := json.Marshal(payload)

	resp, err := wh.client.Post(wh.url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Erro ao enviar webhook: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("Webhook respondeu status %d", resp.StatusCode)
	}
}
