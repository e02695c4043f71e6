// Package eventos publica eventos de cadastro no Kafka para o pipeline de
// analytics. A publicação é de melhor esforço: com brokers vazios o produtor
// fica desabilitado e falhas de envio são apenas logadas.
package eventos

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/salvo-app/api-cadastro/internal/cadastro"
)

// CadastroCriadoEvent é o payload do evento cadastro.criado.
type CadastroCriadoEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CadastroID string    `json:"cadastro_id"`
	Nome       string    `json:"nome"`
	Categoria  string    `json:"categoria"`
	Cidade     string    `json:"cidade"`
	UF         string    `json:"uf"`
	Tipo       string    `json:"tipo"`
	UTMSource  string    `json:"utm_source"`
	Timestamp  time.Time `json:"timestamp"`
}

// Produtor escreve eventos no tópico de cadastros.
type Produtor struct {
	writer *kafka.Writer
	topico string
}

// NewProdutor monta o produtor a partir da lista de brokers separada por
// vírgula. Lista vazia desabilita a publicação.
func NewProdutor(brokers, topico string) *Produtor {
	var validos []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			validos = append(validos, b)
		}
	}
	if len(validos) == 0 {
		log.Println("eventos: Kafka desabilitado (KAFKA_BROKERS vazio)")
		return &Produtor{}
	}

	return &Produtor{
		topico: topico,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(validos...),
			Topic:        topico,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *Produtor) NotificarCadastro(c *cadastro.Cadastro, id string) {
	if p == nil || p.writer == nil {
		return
	}

	ev := CadastroCriadoEvent{
		EventID:    fmt.Sprintf("cadastro-%s-%d", id, time.Now().UnixNano()),
		EventType:  "cadastro.criado",
		CadastroID: id,
		Nome:       c.Nome,
		Categoria:  c.Categoria,
		Cidade:     c.Cidade,
		UF:         c.UF,
		Tipo:       c.Tipo,
		UTMSource:  c.UTMSource,
		Timestamp:  time.Now().UTC(),
	}

	valor, err := json.Marshal(ev)
	if err != nil {
		log.Printf("eventos: falha ao serializar evento: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("cadastro-" + id),
		Value: valor,
	})
	if err != nil {
		log.Printf("eventos: falha ao publicar cadastro.criado para %s: %v", id, err)
	}
}

// Fechar libera o writer; chamado no desligamento do serviço.
func (p *Produtor) Fechar() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
