package cadastro

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrWhatsAppJaCadastrado é devolvido pelos stores quando a restrição de
// unicidade do WhatsApp é violada no momento da gravação.
var ErrWhatsAppJaCadastrado = errors.New("cadastro: whatsapp já cadastrado")

// Cadastro é o registro de vendedor enviado pela landing page.
// WhatsApp, CNPJ e CEP são armazenados na forma canônica, somente dígitos.
type Cadastro struct {
	gorm.Model
	// RegistroID é o identificador devolvido pelo backend na gravação e
	// preenchido na listagem: o ID numérico no Postgres, o UUID no DynamoDB.
	RegistroID  string   `json:"-" gorm:"-"`
	Nome        string   `json:"nome"`
	Categoria   string   `json:"categoria"`
	Whatsapp    string   `json:"whatsapp" gorm:"uniqueIndex"`
	Email       string   `json:"email"`
	CNPJ        string   `json:"cnpj"`
	CEP         string   `json:"cep"`
	Endereco    string   `json:"endereco"`
	Complemento string   `json:"complemento"`
	Cidade      string   `json:"cidade"`
	UF          string   `json:"uf"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	UTMSource   string   `json:"utmSource"`
	UTMMedium   string   `json:"utmMedium"`
	UTMCampaign string   `json:"utmCampaign"`
	Tipo        string   `json:"tipo"`   // PF ou PJ
	Status      string   `json:"status"` // ativo
	Source      string   `json:"source"` // landing_page
}

// Filtro restringe a listagem de cadastros.
type Filtro struct {
	Categoria string
	Status    string
	Limite    int
}

// Estatisticas agrega os totais de cadastros por tipo.
type Estatisticas struct {
	Total int64 `json:"total"`
	PF    int64 `json:"pf"`
	PJ    int64 `json:"pj"`
}

// Store é o contrato comum dos dois backends de persistência
// (Postgres e DynamoDB). Salvar devolve o identificador gerado e deve
// falhar com ErrWhatsAppJaCadastrado em caso de WhatsApp repetido.
type Store interface {
	Salvar(ctx context.Context, c *Cadastro) (string, error)
	ExistePorWhatsApp(ctx context.Context, whatsapp string) (bool, error)
	Listar(ctx context.Context, filtro Filtro) ([]Cadastro, error)
	Contar(ctx context.Context) (Estatisticas, error)
}
