package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
	"sportsbook/internal/utils"
)

// BetService owns bets from placement through settlement.
type BetService struct {
	ledgerService
	oddsTolerance decimal.Decimal
}

// NewBetService creates a BetService. oddsTolerance is the relative
// divergence accepted between client-quoted and server-computed odds.
func NewBetService(deps Deps, oddsTolerance decimal.Decimal) *BetService {
	return &BetService{
		ledgerService: newLedgerService(deps),
		oddsTolerance: oddsTolerance,
	}
}

// SelectionInput is one leg of a bet slip as submitted by the client.
type SelectionInput struct {
	MatchID uint
	BetType models.BetType
	Option  string
	Odds    decimal.Decimal
	Label   string
}

// PlaceBetInput is a bet slip. TotalOdds and PotentialWin are the client's
// quote and are checked against the server's own computation.
type PlaceBetInput struct {
	Selections   []SelectionInput
	Stake        decimal.Decimal
	TotalOdds    decimal.Decimal
	PotentialWin decimal.Decimal
}

// BetResult is a bet after a wallet-affecting operation.
type BetResult struct {
	Bet         *models.Bet
	Transaction *models.Transaction
	NewBalance  decimal.Decimal
}

// PlaceBet debits the stake and records the bet and its transaction as one unit.
func (s *BetService) PlaceBet(ctx context.Context, userID uint, in PlaceBetInput) (*BetResult, error) {
	var result BetResult

	err := s.runTx(ctx, "place_bet", func(repo *repository.Repository, tx *gorm.DB) error {
		selections, totalOdds, potentialWin, err := s.priceSlip(ctx, repo, in)
		if err != nil {
			return err
		}

		mv, err := ledger.Debit(ctx, tx, userID, in.Stake)
		if err != nil {
			return err
		}

		now := s.Clock.Now()
		reference, err := utils.GenerateBetReference(now)
		if err != nil {
			return apperr.Internal("failed to generate bet reference", err)
		}

		bet := &models.Bet{
			Reference:    reference,
			UserID:       userID,
			Selections:   datatypes.NewJSONType(selections),
			Stake:        in.Stake,
			TotalOdds:    totalOdds,
			PotentialWin: potentialWin,
			Status:       models.BetPending,
			PlacedAt:     now,
		}
		if err := repo.CreateBet(ctx, bet); err != nil {
			return err
		}

		txn, _, err := repo.RecordTransaction(ctx, repository.RecordParams{
			UserID:      userID,
			Type:        models.TxBet,
			Amount:      in.Stake,
			Status:      models.TxCompleted,
			Description: fmt.Sprintf("Bet placed - Stake: %s, Potential Win: %s", naira(in.Stake), naira(potentialWin)),
			BetID:       &bet.ID,
		})
		if err != nil {
			return err
		}

		result = BetResult{Bet: bet, Transaction: txn, NewBalance: mv.After}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.BetEvent("placed")
	s.committed(ctx, events.LedgerEvent{
		Type:          events.BetPlaced,
		UserID:        userID,
		Amount:        result.Bet.Stake,
		Balance:       result.NewBalance,
		Reference:     result.Bet.Reference,
		TransactionID: result.Transaction.ID,
		BetID:         result.Bet.ID,
		Status:        string(models.BetPending),
		OccurredAt:    result.Bet.PlacedAt,
	}, ledger.DirectionDebit)

	s.Logger.Info("bet placed",
		zap.Uint("user_id", userID),
		zap.String("bet", result.Bet.Reference),
		zap.Stringer("stake", result.Bet.Stake),
		zap.Int("selections", len(in.Selections)),
	)
	return &result, nil
}

// priceSlip validates the slip against the match catalog and returns the
// frozen selections with the server-computed total odds and potential win.
func (s *BetService) priceSlip(ctx context.Context, repo *repository.Repository, in PlaceBetInput) ([]models.Selection, decimal.Decimal, decimal.Decimal, error) {
	zero := decimal.Zero

	if len(in.Selections) == 0 {
		return nil, zero, zero, apperr.InvalidSelections("At least one selection is required")
	}
	if !in.Stake.IsPositive() || !validMoney(in.Stake) {
		return nil, zero, zero, apperr.Validation("Stake must be a positive amount with at most two decimal places")
	}
	if !in.TotalOdds.IsPositive() || !in.PotentialWin.IsPositive() {
		return nil, zero, zero, apperr.Validation("Total odds and potential win must be greater than zero")
	}

	ids := make([]uint, 0, len(in.Selections))
	seen := make(map[uint]bool, len(in.Selections))
	for i, sel := range in.Selections {
		if sel.MatchID == 0 {
			return nil, zero, zero, apperr.InvalidSelections("Selection %d has no match", i+1)
		}
		if seen[sel.MatchID] {
			return nil, zero, zero, apperr.InvalidSelections("Match %d appears in more than one selection", sel.MatchID)
		}
		seen[sel.MatchID] = true
		if !sel.BetType.ValidOption(sel.Option) {
			return nil, zero, zero, apperr.InvalidSelections("Selection %d has invalid option %q for %s", i+1, sel.Option, sel.BetType)
		}
		if !sel.Odds.IsPositive() {
			return nil, zero, zero, apperr.InvalidSelections("Selection %d has invalid odds", i+1)
		}
		ids = append(ids, sel.MatchID)
	}

	matches, err := repo.GetMatchesByIDs(ctx, ids)
	if err != nil {
		return nil, zero, zero, err
	}

	product := decimal.NewFromInt(1)
	selections := make([]models.Selection, 0, len(in.Selections))
	for _, sel := range in.Selections {
		match, ok := matches[sel.MatchID]
		if !ok {
			return nil, zero, zero, apperr.InvalidSelections("Match %d not found", sel.MatchID)
		}
		if match.Status == models.MatchFinished {
			return nil, zero, zero, apperr.InvalidSelections("Match %d has already finished", sel.MatchID)
		}
		price, ok := match.OddsFor(sel.BetType, sel.Option)
		if !ok {
			return nil, zero, zero, apperr.InvalidSelections("Match %d has no odds for %s %s", sel.MatchID, sel.BetType, sel.Option)
		}
		if !s.withinTolerance(sel.Odds, price) {
			return nil, zero, zero, apperr.Validation("Odds for match %d have changed from %s to %s", sel.MatchID, sel.Odds, price)
		}

		product = product.Mul(price)
		selections = append(selections, models.Selection{
			MatchID: sel.MatchID,
			Match:   match.Snapshot(),
			BetType: sel.BetType,
			Option:  sel.Option,
			Odds:    price,
			Label:   sel.Label,
		})
	}

	totalOdds := product.Round(4)
	if !s.withinTolerance(in.TotalOdds, totalOdds) {
		return nil, zero, zero, apperr.Validation("Total odds %s do not match the selections (%s)", in.TotalOdds, totalOdds)
	}

	potentialWin := in.Stake.Mul(totalOdds).Round(2)
	if !s.withinTolerance(in.PotentialWin, potentialWin) {
		return nil, zero, zero, apperr.Validation("Potential win %s does not match stake times odds (%s)", in.PotentialWin, potentialWin)
	}

	return selections, totalOdds, potentialWin, nil
}

// withinTolerance reports whether got is within the relative tolerance of want.
func (s *BetService) withinTolerance(got, want decimal.Decimal) bool {
	return got.Sub(want).Abs().LessThanOrEqual(want.Mul(s.oddsTolerance))
}

// GetBet returns a bet owned by userID
func (s *BetService) GetBet(ctx context.Context, userID, betID uint) (*models.Bet, error) {
	return s.repo.GetUserBet(ctx, userID, betID)
}

// ListBets returns the user's bets, optionally filtered by status
func (s *BetService) ListBets(ctx context.Context, userID uint, status models.BetStatus, page repository.Page) ([]models.Bet, int64, error) {
	return s.ListAllBets(ctx, repository.BetFilter{UserID: &userID, Status: status, Page: page})
}

// ListAllBets returns bets across users for the admin console
func (s *BetService) ListAllBets(ctx context.Context, filter repository.BetFilter) ([]models.Bet, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Validation("Invalid bet status %q", filter.Status)
	}
	return s.repo.ListBets(ctx, filter)
}
