package cadastro

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/salvo-app/api-cadastro/internal/mascara"
	"github.com/salvo-app/api-cadastro/internal/validacao"
)

// ErroValidacao carrega todas as mensagens de campo de uma submissão inválida,
// não apenas a primeira.
type ErroValidacao struct {
	Campos map[string]string
}

func (e *ErroValidacao) Error() string {
	return fmt.Sprintf("cadastro: %d campo(s) inválido(s)", len(e.Campos))
}

// ErroRede indica falha transitória (timeout, transporte) na persistência.
type ErroRede struct{ Causa error }

func (e *ErroRede) Error() string { return "cadastro: falha de rede: " + e.Causa.Error() }
func (e *ErroRede) Unwrap() error { return e.Causa }

// ErroServidor indica falha não transitória do backend de persistência.
type ErroServidor struct{ Causa error }

func (e *ErroServidor) Error() string { return "cadastro: falha do servidor: " + e.Causa.Error() }
func (e *ErroServidor) Unwrap() error { return e.Causa }

// Notificador recebe o cadastro salvo para envios de melhor esforço
// (webhook, e-mail de boas-vindas, evento Kafka). Falhas não podem
// afetar o resultado da submissão.
type Notificador interface {
	NotificarCadastro(c *Cadastro, id string)
}

// Resultado é a saída de uma submissão bem-sucedida.
type Resultado struct {
	ID       string
	Cadastro *Cadastro
}

// Pipeline executa a submissão em passada única, sem retry:
// valida → normaliza → verifica duplicidade → enriquece → persiste → notifica.
type Pipeline struct {
	store         Store
	notificadores []Notificador
	timeout       time.Duration
	agora         func() time.Time
}

func NewPipeline(store Store, notificadores ...Notificador) *Pipeline {
	return &Pipeline{
		store:         store,
		notificadores: notificadores,
		timeout:       10 * time.Second,
		agora:         time.Now,
	}
}

// Processar executa o pipeline completo para uma submissão.
// Erros devolvidos: *ErroValidacao, ErrWhatsAppJaCadastrado, *ErroRede
// ou *ErroServidor.
func (p *Pipeline) Processar(ctx context.Context, req *CriarCadastroRequest) (*Resultado, error) {
	if erros := ValidarRequest(req); len(erros) > 0 {
		return nil, &ErroValidacao{Campos: erros}
	}

	c := normalizar(req)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Pré-checagem de duplicidade em modo fail-open: se a consulta falhar,
	// a submissão segue e a restrição de unicidade do store decide.
	existe, err := p.store.ExistePorWhatsApp(ctx, c.Whatsapp)
	if err != nil {
		log.Printf("cadastro: verificação de duplicidade indisponível, seguindo: %v", err)
	} else if existe {
		return nil, ErrWhatsAppJaCadastrado
	}

	p.enriquecer(c, req)

	id, err := p.store.Salvar(ctx, c)
	if err != nil {
		if errors.Is(err, ErrWhatsAppJaCadastrado) {
			return nil, ErrWhatsAppJaCadastrado
		}
		return nil, classificarErro(err)
	}

	for _, n := range p.notificadores {
		go n.NotificarCadastro(c, id)
	}

	return &Resultado{ID: id, Cadastro: c}, nil
}

// ValidarRequest valida todos os campos e devolve o conjunto completo de
// erros, indexado pelo nome do campo do formulário.
func ValidarRequest(req *CriarCadastroRequest) map[string]string {
	erros := map[string]string{}

	if !validacao.Nome(req.Nome) {
		erros["nome"] = "Nome é obrigatório e deve ter pelo menos 2 caracteres"
	}
	if !validacao.Categoria(req.Categoria) {
		erros["categoria"] = "Categoria inválida"
	}
	if !validacao.Telefone(req.Whatsapp) {
		erros["whatsapp"] = "Digite um WhatsApp válido"
	}
	if !validacao.Email(req.Email) {
		erros["email"] = "Digite um e-mail válido"
	}
	if !validacao.CEP(req.CEP) {
		erros["cep"] = "CEP deve ter 8 dígitos"
	}
	if !validacao.CampoObrigatorio(req.Endereco) {
		erros["endereco"] = "Endereço é obrigatório"
	}
	if !validacao.CampoObrigatorio(req.Complemento) {
		erros["complemento"] = "Complemento é obrigatório"
	}
	if !validacao.CampoObrigatorio(req.Cidade) {
		erros["cidade"] = "Cidade é obrigatória"
	}
	if !validacao.UF(req.UF) {
		erros["uf"] = "UF é obrigatório"
	}
	if tipoDe(req) == "PJ" && !validacao.CNPJ(req.CNPJ) {
		erros["cnpj"] = "Digite um CNPJ válido"
	}
	if !req.AceiteLGPD {
		erros["aceiteLGPD"] = "Você deve aceitar os termos para continuar"
	}

	return erros
}

// normalizar remove as máscaras e espaços, deixando o registro na forma
// canônica. O registro não é mais alterado depois da chamada de persistência.
func normalizar(req *CriarCadastroRequest) *Cadastro {
	c := &Cadastro{
		Nome:        strings.TrimSpace(req.Nome),
		Categoria:   strings.TrimSpace(req.Categoria),
		Whatsapp:    mascara.SomenteDigitos(req.Whatsapp),
		Email:       strings.TrimSpace(req.Email),
		CEP:         mascara.SomenteDigitos(req.CEP),
		Endereco:    strings.TrimSpace(req.Endereco),
		Complemento: strings.TrimSpace(req.Complemento),
		Cidade:      strings.TrimSpace(req.Cidade),
		UF:          strings.ToUpper(strings.TrimSpace(req.UF)),
		Tipo:        tipoDe(req),
	}
	if c.Tipo == "PJ" {
		c.CNPJ = mascara.SomenteDigitos(req.CNPJ)
	}
	return c
}

// enriquecer anexa os metadados de captura: UTM com defaults, geolocalização
// opcional, status e origem.
func (p *Pipeline) enriquecer(c *Cadastro, req *CriarCadastroRequest) {
	c.UTMSource = valorOuPadrao(req.UTMSource, "direct")
	c.UTMMedium = valorOuPadrao(req.UTMMedium, "none")
	c.UTMCampaign = valorOuPadrao(req.UTMCampaign, "none")
	c.Latitude = req.Latitude
	c.Longitude = req.Longitude
	c.Status = "ativo"
	c.Source = "landing_page"
	c.CreatedAt = p.agora()
}

func tipoDe(req *CriarCadastroRequest) string {
	if strings.EqualFold(strings.TrimSpace(req.Tipo), "PJ") {
		return "PJ"
	}
	return "PF"
}

func valorOuPadrao(valor, padrao string) string {
	if v := strings.TrimSpace(valor); v != "" {
		return v
	}
	return padrao
}

// classificarErro separa falhas transitórias de transporte das demais.
func classificarErro(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ErroRede{Causa: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ErroRede{Causa: err}
	}
	return &ErroServidor{Causa: err}
}
