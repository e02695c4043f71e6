package middleware

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContadorRedis acumula em Redis os totais de requisições permitidas e
// bloqueadas pelo rate limit, com séries por minuto para inspeção.
// Um ponteiro nil desabilita a contagem.
type ContadorRedis struct {
	rdb     *redis.Client
	prefixo string
	ttl     time.Duration
}

// NewContadorRedis conecta no Redis do endereço informado; endereço vazio
// devolve nil (contagem desabilitada).
func NewContadorRedis(addr, senha string) *ContadorRedis {
	if addr == "" {
		return nil
	}
	return &ContadorRedis{
		rdb:     redis.NewClient(&redis.Options{Addr: addr, Password: senha}),
		prefixo: "salvo:ratelimit",
		ttl:     24 * time.Hour,
	}
}

// Registrar incrementa o total cumulativo e o bucket do minuto corrente.
func (c *ContadorRedis) Registrar(ctx context.Context, resultado string) {
	if c == nil {
		return
	}

	minuto := time.Now().UTC().Format("200601021504")
	pipe := c.rdb.Pipeline()
	pipe.Incr(ctx, c.prefixo+":total:"+resultado)
	chaveMinuto := c.prefixo + ":minuto:" + minuto + ":" + resultado
	pipe.Incr(ctx, chaveMinuto)
	pipe.Expire(ctx, chaveMinuto, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("middleware: falha ao registrar contador no redis: %v", err)
	}
}

// Totais devolve os acumulados de permitidos e bloqueados.
func (c *ContadorRedis) Totais(ctx context.Context) (permitidos, bloqueados int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	permitidos, err = c.rdb.Get(ctx, c.prefixo+":total:permitido").Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, err
	}
	bloqueados, err = c.rdb.Get(ctx, c.prefixo+":total:bloqueado").Int64()
	if err != nil && err != redis.Nil {
		return permitidos, 0, err
	}
	return permitidos, bloqueados, nil
}
