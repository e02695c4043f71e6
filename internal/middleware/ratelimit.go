// Package middleware traz o rate limiting das rotas públicas de cadastro:
// token bucket por IP de cliente, com contadores opcionais em Redis.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore mantém um token bucket por chave, com limpeza periódica das
// chaves inativas.
type LimiterStore struct {
	mu           sync.Mutex
	entradas     map[string]*entradaLimiter
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	limpezaACada time.Duration
}

type entradaLimiter struct {
	lim       *rate.Limiter
	ultimoUso time.Time
}

func NewLimiterStore(rps float64, burst int) *LimiterStore {
	return &LimiterStore{
		entradas:     make(map[string]*entradaLimiter),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		limpezaACada: 2 * time.Minute,
	}
}

func (s *LimiterStore) obter(chave string) *rate.Limiter {
	agora := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entradas[chave]; ok {
		ent.ultimoUso = agora
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entradas[chave] = &entradaLimiter{lim: lim, ultimoUso: agora}
	return lim
}

func (s *LimiterStore) limpar() {
	corte := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for chave, ent := range s.entradas {
		if ent.ultimoUso.Before(corte) {
			delete(s.entradas, chave)
		}
	}
}

// IniciarLimpeza limpa chaves inativas até o contexto ser cancelado.
func (s *LimiterStore) IniciarLimpeza(ctx context.Context) {
	t := time.NewTicker(s.limpezaACada)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.limpar()
			}
		}
	}()
}

// chaveDoCliente extrai o IP original: primeiro o X-Forwarded-For (cliente
// atrás de proxy), senão o RemoteAddr.
func chaveDoCliente(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		partes := strings.Split(xff, ",")
		if ip := strings.TrimSpace(partes[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RateLimit rejeita com 429 quando o bucket do cliente esgota.
// O contador é opcional (nil desabilita).
func RateLimit(store *LimiterStore, contador *ContadorRedis) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chave := chaveDoCliente(r)
			if !store.obter(chave).Allow() {
				contador.Registrar(r.Context(), "bloqueado")
				w.Header().Set("Retry-After", strconv.Itoa(1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"erro":"Muitas tentativas. Aguarde um instante."}`))
				return
			}
			contador.Registrar(r.Context(), "permitido")
			next.ServeHTTP(w, r)
		})
	}
}
