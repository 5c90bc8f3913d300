package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/clock"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/metrics"
	"sportsbook/internal/repository"
)

// Deps are the collaborators shared by the services that move money.
type Deps struct {
	DB        *gorm.DB
	Clock     clock.Clock
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// ledgerService holds the plumbing every wallet-affecting operation shares.
type ledgerService struct {
	Deps
	repo *repository.Repository
}

func newLedgerService(deps Deps) ledgerService {
	deps = deps.withDefaults()
	return ledgerService{Deps: deps, repo: repository.NewRepository(deps.DB)}
}

// runTx executes fn in one database transaction. Everything fn writes through
// the given repository and handle commits or rolls back together.
func (s *ledgerService) runTx(ctx context.Context, op string, fn func(repo *repository.Repository, tx *gorm.DB) error) error {
	start := time.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx), tx)
	})
	s.Metrics.ObserveOp(op, start, err)
	if err != nil && apperr.CodeOf(err) == apperr.CodeInternal {
		s.Logger.Error("ledger operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// committed records metrics and publishes the event for a committed movement.
// Publishing is best effort; the wallet change is already durable.
func (s *ledgerService) committed(ctx context.Context, event events.LedgerEvent, direction ledger.Direction) {
	s.Metrics.AddAmount(string(direction), event.Amount)

	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.Clock.Now()
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Warn("failed to publish ledger event",
			zap.String("type", string(event.Type)),
			zap.Uint("user_id", event.UserID),
			zap.Error(err),
		)
	}
}

// validMoney reports whether amount has at most two decimal places.
func validMoney(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

// naira formats an amount for transaction descriptions.
func naira(amount decimal.Decimal) string {
	return "₦" + amount.StringFixed(2)
}
