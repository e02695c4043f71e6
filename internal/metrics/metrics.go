// Package metrics expõe os contadores Prometheus do fluxo de cadastro.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type CadastroMetrics struct {
	criadosTotal    *prometheus.CounterVec
	rejeitadosTotal *prometheus.CounterVec
}

func NewCadastroMetrics(reg prometheus.Registerer) *CadastroMetrics {
	m := &CadastroMetrics{
		criadosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salvo",
			Subsystem: "cadastro",
			Name:      "criados_total",
			Help:      "Total de cadastros persistidos",
		}, []string{"tipo", "backend"}),
		rejeitadosTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salvo",
			Subsystem: "cadastro",
			Name:      "rejeitados_total",
			Help:      "Total de submissões rejeitadas",
		}, []string{"motivo"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.criadosTotal, m.rejeitadosTotal)
	return m
}

func (m *CadastroMetrics) ObservarCriado(tipo, backend string) {
	if m == nil {
		return
	}
	m.criadosTotal.WithLabelValues(tipo, backend).Inc()
}

// ObservarRejeitado registra uma submissão recusada: validacao, duplicado,
// rede ou servidor.
func (m *CadastroMetrics) ObservarRejeitado(motivo string) {
	if m == nil {
		return
	}
	m.rejeitadosTotal.WithLabelValues(motivo).Inc()
}
