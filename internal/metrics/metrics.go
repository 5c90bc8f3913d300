package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"sportsbook/internal/apperr"
)

// Metrics holds the ledger and betting collectors.
type Metrics struct {
	ledgerOps    *prometheus.CounterVec
	ledgerAmount *prometheus.CounterVec
	bets         *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ledgerOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sportsbook",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger operations partitioned by operation and result code.",
			},
			[]string{"op", "result"},
		),
		ledgerAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sportsbook",
				Subsystem: "ledger",
				Name:      "amount_total",
				Help:      "Sum of committed wallet movements by direction.",
			},
			[]string{"direction"},
		),
		bets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sportsbook",
				Name:      "bets_total",
				Help:      "Bet lifecycle events.",
			},
			[]string{"event"},
		),
		opDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sportsbook",
				Subsystem: "ledger",
				Name:      "tx_duration_seconds",
				Help:      "Duration of ledger database transactions.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// ObserveOp records the outcome and duration of a ledger operation.
func (m *Metrics) ObserveOp(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(string(apperr.CodeOf(err)))
	}
	m.ledgerOps.WithLabelValues(op, result).Inc()
	m.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddAmount adds a committed movement to the direction total.
func (m *Metrics) AddAmount(direction string, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	m.ledgerAmount.WithLabelValues(direction).Add(amount.Abs().InexactFloat64())
}

// BetEvent counts a bet lifecycle event such as placed or won.
func (m *Metrics) BetEvent(event string) {
	m.bets.WithLabelValues(event).Inc()
}
