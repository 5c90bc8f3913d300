package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
)

// CancelBet refunds the stake of the user's own pending bet.
func (s *BetService) CancelBet(ctx context.Context, userID, betID uint) (*BetResult, error) {
	var result *BetResult

	err := s.runTx(ctx, "cancel_bet", func(repo *repository.Repository, tx *gorm.DB) error {
		bet, err := repo.GetUserBet(ctx, userID, betID)
		if err != nil {
			return err
		}
		if bet.Status != models.BetPending {
			return apperr.New(apperr.CodeNotCancellable, "Only pending bets can be cancelled; this bet is %s", bet.Status)
		}

		result, err = s.settle(ctx, repo, tx, bet, models.BetCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterSettle(ctx, result, events.BetCancelled)
	return result, nil
}

// SettleBet resolves a pending bet on behalf of an admin.
func (s *BetService) SettleBet(ctx context.Context, adminID, betID uint, status models.BetStatus) (*BetResult, error) {
	if !status.IsTerminal() {
		return nil, apperr.Validation("Status must be won, lost or cancelled")
	}

	var result *BetResult

	err := s.runTx(ctx, "settle_bet", func(repo *repository.Repository, tx *gorm.DB) error {
		bet, err := repo.GetBet(ctx, betID)
		if err != nil {
			return err
		}
		if bet.Status != models.BetPending {
			return apperr.New(apperr.CodeAlreadySettled, "Bet has already been settled as %s", bet.Status)
		}

		result, err = s.settle(ctx, repo, tx, bet, status)
		if err != nil {
			return err
		}

		return logAdminAction(ctx, repo, adminID, models.ActionSettleBet, "bet", &bet.ID, map[string]interface{}{
			"status":    string(status),
			"userId":    bet.UserID,
			"reference": bet.Reference,
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterSettle(ctx, result, events.BetSettled)
	return result, nil
}

// SettleOutcome is the result for one bet of a bulk settlement.
type SettleOutcome struct {
	BetID   uint             `json:"betId"`
	Success bool             `json:"success"`
	Status  models.BetStatus `json:"status,omitempty"`
	Message string           `json:"message,omitempty"`
}

// SettleBets settles each bet independently; one failure does not affect the others.
func (s *BetService) SettleBets(ctx context.Context, adminID uint, betIDs []uint, status models.BetStatus) ([]SettleOutcome, error) {
	if !status.IsTerminal() {
		return nil, apperr.Validation("Status must be won, lost or cancelled")
	}
	if len(betIDs) == 0 {
		return nil, apperr.Validation("At least one bet is required")
	}

	seen := make(map[uint]bool, len(betIDs))
	outcomes := make([]SettleOutcome, 0, len(betIDs))
	for _, id := range betIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		res, err := s.SettleBet(ctx, adminID, id, status)
		if err != nil {
			outcomes = append(outcomes, SettleOutcome{BetID: id, Message: apperr.PublicMessage(err)})
			continue
		}
		outcomes = append(outcomes, SettleOutcome{BetID: id, Success: true, Status: res.Bet.Status})
	}
	return outcomes, nil
}

// settle moves bet out of pending and applies the matching wallet effect:
// the potential win for won, the stake for cancelled and nothing for lost.
func (s *BetService) settle(ctx context.Context, repo *repository.Repository, tx *gorm.DB, bet *models.Bet, to models.BetStatus) (*BetResult, error) {
	now := s.Clock.Now()
	ok, err := repo.SettleBet(ctx, bet.ID, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		if to == models.BetCancelled {
			return nil, apperr.New(apperr.CodeNotCancellable, "Only pending bets can be cancelled")
		}
		return nil, apperr.New(apperr.CodeAlreadySettled, "Bet has already been settled")
	}
	bet.Status = to
	bet.SettledAt = &now

	result := &BetResult{Bet: bet}

	var params *repository.RecordParams
	switch to {
	case models.BetWon:
		params = &repository.RecordParams{
			Type:        models.TxBetWin,
			Amount:      bet.PotentialWin,
			Description: fmt.Sprintf("Bet won - Payout: %s (%s)", naira(bet.PotentialWin), bet.Reference),
		}
	case models.BetCancelled:
		params = &repository.RecordParams{
			Type:        models.TxBetRefund,
			Amount:      bet.Stake,
			Description: fmt.Sprintf("Bet cancelled - Refund: %s (%s)", naira(bet.Stake), bet.Reference),
		}
	}

	if params == nil {
		balance, err := ledger.Balance(ctx, tx, bet.UserID)
		if err != nil {
			return nil, err
		}
		result.NewBalance = balance
		return result, nil
	}

	mv, err := ledger.Credit(ctx, tx, bet.UserID, params.Amount)
	if err != nil {
		return nil, err
	}

	params.UserID = bet.UserID
	params.Status = models.TxCompleted
	params.BetID = &bet.ID
	txn, _, err := repo.RecordTransaction(ctx, *params)
	if err != nil {
		return nil, err
	}

	result.Transaction = txn
	result.NewBalance = mv.After
	return result, nil
}

func (s *BetService) afterSettle(ctx context.Context, result *BetResult, eventType events.EventType) {
	bet := result.Bet
	s.Metrics.BetEvent(string(bet.Status))

	s.Logger.Info("bet settled",
		zap.Uint("user_id", bet.UserID),
		zap.String("bet", bet.Reference),
		zap.String("status", string(bet.Status)),
	)

	event := events.LedgerEvent{
		Type:       eventType,
		UserID:     bet.UserID,
		Balance:    result.NewBalance,
		Reference:  bet.Reference,
		BetID:      bet.ID,
		Status:     string(bet.Status),
		OccurredAt: *bet.SettledAt,
	}
	if result.Transaction != nil {
		event.Amount = result.Transaction.Amount
		event.TransactionID = result.Transaction.ID
	}
	s.committed(ctx, event, ledger.DirectionCredit)
}
