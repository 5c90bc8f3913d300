package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
)

// WalletService handles deposits, withdrawals and admin balance adjustments.
type WalletService struct {
	ledgerService
	minWithdrawal decimal.Decimal
}

func NewWalletService(deps Deps, minWithdrawal decimal.Decimal) *WalletService {
	return &WalletService{
		ledgerService: newLedgerService(deps),
		minWithdrawal: minWithdrawal,
	}
}

// WalletResult is a transaction together with the owner's balance after it.
type WalletResult struct {
	Transaction *models.Transaction
	NewBalance  decimal.Decimal
}

// WalletSummary is the wallet view shown to a user.
type WalletSummary struct {
	Balance            decimal.Decimal `json:"balance"`
	PendingWithdrawals decimal.Decimal `json:"pendingWithdrawals"`
	MinWithdrawal      decimal.Decimal `json:"minWithdrawal"`
}

// GetWallet returns the balance and the amount held in pending withdrawals
func (s *WalletService) GetWallet(ctx context.Context, userID uint) (*WalletSummary, error) {
	balance, err := ledger.Balance(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.SumTransactions(ctx, repository.TransactionFilter{
		UserID: &userID,
		Type:   models.TxWithdrawal,
		Status: models.TxPending,
	})
	if err != nil {
		return nil, err
	}

	return &WalletSummary{
		Balance:            balance,
		PendingWithdrawals: pending,
		MinWithdrawal:      s.minWithdrawal,
	}, nil
}

// DepositInput is a payment confirmation from the payment provider.
type DepositInput struct {
	Reference string
	Amount    decimal.Decimal
	Email     string
}

// DepositResult reports a processed deposit. Duplicate is set when the
// reference had already been processed and nothing was credited.
type DepositResult struct {
	Transaction *models.Transaction
	NewBalance  decimal.Decimal
	Duplicate   bool
}

// errDepositRaced aborts a deposit whose reference was inserted concurrently.
var errDepositRaced = errors.New("deposit reference recorded concurrently")

// HandleDepositCallback credits a confirmed deposit exactly once per reference.
func (s *WalletService) HandleDepositCallback(ctx context.Context, in DepositInput) (*DepositResult, error) {
	reference := strings.TrimSpace(in.Reference)
	email := strings.TrimSpace(in.Email)
	if reference == "" || email == "" {
		return nil, apperr.Validation("Reference, amount and email are required")
	}
	if !in.Amount.IsPositive() || !validMoney(in.Amount) {
		return nil, apperr.Validation("Deposit amount must be a positive amount with at most two decimal places")
	}

	var result DepositResult

	err := s.runTx(ctx, "deposit", func(repo *repository.Repository, tx *gorm.DB) error {
		existing, err := repo.GetTransactionByReference(ctx, reference)
		if err == nil {
			return s.replayDeposit(ctx, tx, existing, in, &result)
		}
		if !apperr.Is(err, apperr.CodeNotFound) {
			return err
		}

		user, err := repo.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}

		mv, err := ledger.Credit(ctx, tx, user.ID, in.Amount)
		if err != nil {
			return err
		}

		txn, duplicate, err := repo.RecordTransaction(ctx, repository.RecordParams{
			UserID:           user.ID,
			Type:             models.TxDeposit,
			Amount:           in.Amount,
			Status:           models.TxCompleted,
			Description:      fmt.Sprintf("Deposit of %s", naira(in.Amount)),
			Reference:        reference,
			PaymentReference: reference,
		})
		if err != nil {
			return err
		}
		if duplicate {
			return errDepositRaced
		}

		result = DepositResult{Transaction: txn, NewBalance: mv.After}
		return nil
	})

	if errors.Is(err, errDepositRaced) {
		// The credit above was rolled back; report the winner's record.
		existing, err := s.repo.GetTransactionByReference(ctx, reference)
		if err != nil {
			return nil, err
		}
		if err := s.replayDeposit(ctx, s.DB, existing, in, &result); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		s.Logger.Info("duplicate deposit callback ignored", zap.String("reference", reference))
		return &result, nil
	}

	s.committed(ctx, events.LedgerEvent{
		Type:          events.DepositCompleted,
		UserID:        result.Transaction.UserID,
		Amount:        result.Transaction.Amount,
		Balance:       result.NewBalance,
		Reference:     reference,
		TransactionID: result.Transaction.ID,
		Status:        string(models.TxCompleted),
	}, ledger.DirectionCredit)

	s.Logger.Info("deposit credited",
		zap.Uint("user_id", result.Transaction.UserID),
		zap.String("reference", reference),
		zap.Stringer("amount", in.Amount),
	)
	return &result, nil
}

// replayDeposit fills result with an already-processed deposit.
func (s *WalletService) replayDeposit(ctx context.Context, db *gorm.DB, existing *models.Transaction, in DepositInput, result *DepositResult) error {
	if existing.Type != models.TxDeposit {
		return apperr.Validation("Reference %s is already used by another transaction", existing.Reference)
	}
	if !existing.Amount.Equal(in.Amount) {
		s.Logger.Warn("deposit replay with different amount",
			zap.String("reference", existing.Reference),
			zap.Stringer("stored", existing.Amount),
			zap.Stringer("received", in.Amount),
		)
	}

	balance, err := ledger.Balance(ctx, db, existing.UserID)
	if err != nil {
		return err
	}
	*result = DepositResult{Transaction: existing, NewBalance: balance, Duplicate: true}
	return nil
}

// AdjustmentInput is an admin balance change.
type AdjustmentInput struct {
	Kind        models.AdjustmentKind
	Amount      decimal.Decimal
	Description string
}

// AdjustWallet applies an admin add, subtract or set to a user's wallet and
// records it as an admin_adjustment carrying the old and new balance.
func (s *WalletService) AdjustWallet(ctx context.Context, adminID, userID uint, in AdjustmentInput) (*WalletResult, error) {
	if !in.Kind.Valid() {
		return nil, apperr.Validation("Type must be add, subtract or set")
	}
	if !validMoney(in.Amount) {
		return nil, apperr.Validation("Amount must have at most two decimal places")
	}
	if in.Kind == models.AdjustSet {
		if in.Amount.IsNegative() {
			return nil, apperr.Validation("Balance cannot be negative")
		}
	} else if !in.Amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}

	var result WalletResult
	var mv ledger.Movement

	err := s.runTx(ctx, "adjust_wallet", func(repo *repository.Repository, tx *gorm.DB) error {
		var err error
		switch in.Kind {
		case models.AdjustAdd:
			mv, err = ledger.Credit(ctx, tx, userID, in.Amount)
		case models.AdjustSubtract:
			mv, err = ledger.Debit(ctx, tx, userID, in.Amount)
		case models.AdjustSet:
			mv, err = ledger.SetBalance(ctx, tx, userID, in.Amount)
		}
		if err != nil {
			return err
		}

		description := strings.TrimSpace(in.Description)
		if description == "" {
			description = defaultAdjustmentDescription(in.Kind, in.Amount)
		}

		now := s.Clock.Now()
		txn, _, err := repo.RecordTransaction(ctx, repository.RecordParams{
			UserID:        userID,
			Type:          models.TxAdminAdjustment,
			Amount:        mv.Delta().Abs(),
			Status:        models.TxCompleted,
			Description:   description,
			Adjustment:    in.Kind,
			BalanceBefore: decimal.NewNullDecimal(mv.Before),
			BalanceAfter:  decimal.NewNullDecimal(mv.After),
			ProcessedBy:   &adminID,
			ProcessedAt:   &now,
		})
		if err != nil {
			return err
		}

		result = WalletResult{Transaction: txn, NewBalance: mv.After}

		return logAdminAction(ctx, repo, adminID, models.ActionAdjustWallet, "user", &userID, map[string]interface{}{
			"type":          string(in.Kind),
			"amount":        in.Amount.String(),
			"balanceBefore": mv.Before.String(),
			"balanceAfter":  mv.After.String(),
			"transactionId": txn.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, events.LedgerEvent{
		Type:          events.WalletAdjusted,
		UserID:        userID,
		Amount:        result.Transaction.Amount,
		Balance:       result.NewBalance,
		Reference:     result.Transaction.Reference,
		TransactionID: result.Transaction.ID,
		Status:        string(in.Kind),
	}, ledger.DirectionOf(result.Transaction))

	s.Logger.Info("wallet adjusted",
		zap.Uint("admin_id", adminID),
		zap.Uint("user_id", userID),
		zap.String("type", string(in.Kind)),
		zap.Stringer("before", mv.Before),
		zap.Stringer("after", mv.After),
	)
	return &result, nil
}

func defaultAdjustmentDescription(kind models.AdjustmentKind, amount decimal.Decimal) string {
	switch kind {
	case models.AdjustAdd:
		return fmt.Sprintf("Admin credited wallet: %s", naira(amount))
	case models.AdjustSubtract:
		return fmt.Sprintf("Admin debited wallet: %s", naira(amount))
	default:
		return fmt.Sprintf("Admin set wallet: %s", naira(amount))
	}
}

// TransactionQuery filters a transaction listing.
type TransactionQuery struct {
	UserID *uint
	Type   models.TransactionType
	Status models.TransactionStatus
	Page   repository.Page
}

// ListTransactions returns transactions newest first with the total count
func (s *WalletService) ListTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, int64, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, 0, apperr.Validation("Invalid transaction type %q", q.Type)
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, 0, apperr.Validation("Invalid transaction status %q", q.Status)
	}
	return s.repo.ListTransactions(ctx, repository.TransactionFilter{
		UserID: q.UserID,
		Type:   q.Type,
		Status: q.Status,
		Page:   q.Page,
	})
}

// GetTransaction returns a transaction owned by userID
func (s *WalletService) GetTransaction(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return s.repo.GetUserTransaction(ctx, userID, id)
}
