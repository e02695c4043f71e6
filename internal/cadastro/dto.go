package cadastro

import (
	"time"

	"github.com/salvo-app/api-cadastro/internal/mascara"
)

// CriarCadastroRequest é o payload enviado pelos formulários PF e PJ.
// Os nomes seguem os campos da landing page; utm_* chega dos inputs ocultos.
type CriarCadastroRequest struct {
	Nome           string   `json:"nome"`
	Categoria      string   `json:"categoria"`
	Whatsapp       string   `json:"whatsapp"`
	Email          string   `json:"email"`
	CNPJ           string   `json:"cnpj"`
	CEP            string   `json:"cep"`
	Endereco       string   `json:"endereco"`
	Complemento    string   `json:"complemento"`
	Cidade         string   `json:"cidade"`
	UF             string   `json:"uf"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	UTMSource      string   `json:"utm_source"`
	UTMMedium      string   `json:"utm_medium"`
	UTMCampaign    string   `json:"utm_campaign"`
	Tipo           string   `json:"tipo"`
	AceiteLGPD     bool     `json:"aceiteLGPD"`
	RecaptchaToken string   `json:"recaptchaToken"`
}

// CadastroResponse devolve o registro com os campos numéricos já mascarados
// para exibição.
type CadastroResponse struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Categoria   string    `json:"categoria"`
	Whatsapp    string    `json:"whatsapp"`
	Email       string    `json:"email"`
	CNPJ        string    `json:"cnpj,omitempty"`
	CEP         string    `json:"cep"`
	Endereco    string    `json:"endereco"`
	Complemento string    `json:"complemento"`
	Cidade      string    `json:"cidade"`
	UF          string    `json:"uf"`
	Tipo        string    `json:"tipo"`
	Status      string    `json:"status"`
	CriadoEm    time.Time `json:"criadoEm"`
}

// MontarCadastroResponse aplica as máscaras de exibição sobre o registro salvo.
func MontarCadastroResponse(c *Cadastro, id string) CadastroResponse {
	resp := CadastroResponse{
		ID:          id,
		Nome:        c.Nome,
		Categoria:   c.Categoria,
		Whatsapp:    mascara.Telefone(c.Whatsapp),
		Email:       c.Email,
		CEP:         mascara.CEP(c.CEP),
		Endereco:    c.Endereco,
		Complemento: c.Complemento,
		Cidade:      c.Cidade,
		UF:          c.UF,
		Tipo:        c.Tipo,
		Status:      c.Status,
		CriadoEm:    c.CreatedAt,
	}
	if c.CNPJ != "" {
		resp.CNPJ = mascara.CNPJ(c.CNPJ)
	}
	return resp
}
