// Package viacep consulta o serviço público ViaCEP para preencher o endereço
// a partir do CEP. A consulta é uma conveniência de autofill: falhas nunca
// bloqueiam o cadastro.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/salvo-app/api-cadastro/internal/mascara"
)

const urlPadrao = "https://viacep.com.br"

var (
	// ErrCEPInvalido indica que o CEP não tem 8 dígitos.
	ErrCEPInvalido = errors.New("viacep: cep deve ter 8 dígitos")
	// ErrCEPNaoEncontrado indica que o ViaCEP não conhece o CEP.
	ErrCEPNaoEncontrado = errors.New("viacep: cep não encontrado")
)

// Endereco é a resposta do ViaCEP com os campos usados no formulário.
type Endereco struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        bool   `json:"erro"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientComURL(urlPadrao)
}

// NewClientComURL permite apontar para outro endpoint (testes, proxy interno).
func NewClientComURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Consultar resolve um CEP de 8 dígitos para logradouro, bairro, cidade e UF.
func (c *Client) Consultar(ctx context.Context, cep string) (*Endereco, error) {
	digitos := mascara.SomenteDigitos(cep)
	if len(digitos) != 8 {
		return nil, ErrCEPInvalido
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digitos)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep: falha na consulta: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viacep: status inesperado %d", resp.StatusCode)
	}

	var end Endereco
	if err := json.NewDecoder(resp.Body).Decode(&end); err != nil {
		return nil, fmt.Errorf("viacep: resposta inválida: %w", err)
	}
	if end.Erro {
		return nil, ErrCEPNaoEncontrado
	}
	return &end, nil
}
