package notificacao

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/salvo-app/api-cadastro/internal/cadastro"
)

// Email envia a mensagem de boas-vindas via SMTP depois do cadastro.
type Email struct {
	host      string
	porta     int
	usuario   string
	senha     string
	remetente string
}

// NewEmail cria o notificador; sem host ou credenciais os envios viram no-op.
func NewEmail(host string, porta int, usuario, senha, remetente string) *Email {
	if remetente == "" {
		remetente = usuario
	}
	return &Email{
		host:      host,
		porta:     porta,
		usuario:   usuario,
		senha:     senha,
		remetente: remetente,
	}
}

func (e *Email) configurado() bool {
	return e.host != "" && e.usuario != "" && e.senha != "" && e.remetente != ""
}

func (e *Email) NotificarCadastro(c *cadastro.Cadastro, id string) {
	if !e.configurado() || c.Email == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.remetente)
	m.SetHeader("To", c.Email)
	m.SetHeader("Subject", "Bem-vindo ao Salvô!")
	m.SetBody("text/html", corpoBoasVindas(c))

	d := gomail.NewDialer(e.host, e.porta, e.usuario, e.senha)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Erro ao enviar e-mail de boas-vindas para %s: %v", c.Email, err)
	}
}

func corpoBoasVindas(c *cadastro.Cadastro) string {
	return fmt.Sprintf(
		"<p>Olá, %s!</p>"+
			"<p>Seu cadastro na categoria <strong>%s</strong> foi recebido. "+
			"Em breve seu negócio estará visível nas buscas do Salvô pelo WhatsApp.</p>"+
			"<p>Equipe Salvô</p>",
		c.Nome, c.Categoria)
}
