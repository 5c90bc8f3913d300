package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sportsbook/internal/apperr"
)

func TestObserveOp(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOp("place_bet", time.Now(), nil)
	m.ObserveOp("place_bet", time.Now(), apperr.InsufficientFunds())
	m.ObserveOp("place_bet", time.Now(), apperr.InsufficientFunds())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOps.WithLabelValues("place_bet", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOps.WithLabelValues("place_bet", "insufficient_funds")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.opDuration))
}

func TestAddAmountAndBetEvent(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddAmount("debit", decimal.RequireFromString("-100.50"))
	m.AddAmount("debit", decimal.RequireFromString("0"))
	m.AddAmount("credit", decimal.RequireFromString("350"))
	m.BetEvent("placed")

	assert.InDelta(t, 100.5, testutil.ToFloat64(m.ledgerAmount.WithLabelValues("debit")), 1e-9)
	assert.InDelta(t, 350.0, testutil.ToFloat64(m.ledgerAmount.WithLabelValues("credit")), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bets.WithLabelValues("placed")))
}
