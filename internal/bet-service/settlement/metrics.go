package settlement

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
)

type Metrics struct {
	Settlements prometheus.Counter
	Failures    prometheus.Counter
	Bets        *prometheus.CounterVec
	Disbursed   prometheus.Counter
	Duration    prometheus.Histogram
}

// NewMetrics registra os coletores no registerer informado
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Settlements: prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_settlements_total", Help: "liquidações concluídas"}),
		Failures:    prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_settlement_failures_total", Help: "liquidações abortadas"}),
		Bets:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bet_settled_bets_total", Help: "apostas liquidadas por status"}, []string{"status"}),
		Disbursed:   prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_payout_chutis_total", Help: "chutis pagos a vencedores"}),
		Duration:    prometheus.NewHistogram(prometheus.HistogramOpts{Name: "bet_settlement_duration_seconds", Help: "duração da liquidação", Buckets: prometheus.DefBuckets}),
	}
	reg.MustRegister(m.Settlements, m.Failures, m.Bets, m.Disbursed, m.Duration)
	return m
}

// métodos nil-safe: o resolver funciona sem métricas

func (m *Metrics) bet(status model.BetStatus, payout decimal.Decimal) {
	if m == nil {
		return
	}
	m.Bets.WithLabelValues(string(status)).Inc()
	if payout.IsPositive() {
		m.Disbursed.Add(payout.InexactFloat64())
	}
}

func (m *Metrics) settled(d time.Duration) {
	if m == nil {
		return
	}
	m.Settlements.Inc()
	m.Duration.Observe(d.Seconds())
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}
