package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"sportsbook/internal/clock"
	"sportsbook/internal/events"
	"sportsbook/internal/metrics"
	"sportsbook/internal/models"
	"sportsbook/internal/services"
	"sportsbook/internal/testutil"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	db     *gorm.DB
	deps   services.Deps
	events *events.MemoryPublisher
	clock  *clock.Manual
	reg    *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	pub := &events.MemoryPublisher{}
	clk := clock.NewManual(testNow)
	reg := prometheus.NewRegistry()

	return &fixture{
		db:     db,
		events: pub,
		clock:  clk,
		reg:    reg,
		deps: services.Deps{
			DB:        db,
			Clock:     clk,
			Publisher: pub,
			Metrics:   metrics.New(reg),
			Logger:    zaptest.NewLogger(t),
		},
	}
}

func (f *fixture) bets() *services.BetService {
	return services.NewBetService(f.deps, dec("0.01"))
}

func (f *fixture) wallet() *services.WalletService {
	return services.NewWalletService(f.deps, dec("100"))
}

func (f *fixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	return testutil.Balance(t, f.db, userID)
}

// transactions returns every transaction of userID oldest first.
func (f *fixture) transactions(t *testing.T, userID uint) []models.Transaction {
	t.Helper()

	var txns []models.Transaction
	if err := f.db.Where("user_id = ?", userID).Order("id ASC").Find(&txns).Error; err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	return txns
}

// single builds a one-leg home-win slip.
func single(matchID uint, odds, stake, totalOdds, potentialWin string) services.PlaceBetInput {
	return services.PlaceBetInput{
		Selections: []services.SelectionInput{{
			MatchID: matchID,
			BetType: models.BetTypeStraightWin,
			Option:  "home",
			Odds:    dec(odds),
			Label:   "Home",
		}},
		Stake:        dec(stake),
		TotalOdds:    dec(totalOdds),
		PotentialWin: dec(potentialWin),
	}
}

var errWriteFailed = errors.New("write failed")

// failWrites makes every create or update on table fail from now on.
// op is "create" or "update".
func (f *fixture) failWrites(t *testing.T, op, table string) {
	t.Helper()

	fail := func(db *gorm.DB) {
		if db.Statement.Table == table {
			_ = db.AddError(errWriteFailed)
		}
	}

	var err error
	switch op {
	case "create":
		err = f.db.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, fail)
	case "update":
		err = f.db.Callback().Update().Before("gorm:update").Register("test:fail_update_"+table, fail)
	default:
		t.Fatalf("unknown op %q", op)
	}
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
}

// count returns the number of rows of model matching the optional condition.
func (f *fixture) count(t *testing.T, model interface{}, query ...interface{}) int64 {
	t.Helper()

	db := f.db.Model(model)
	if len(query) > 0 {
		db = db.Where(query[0], query[1:]...)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
