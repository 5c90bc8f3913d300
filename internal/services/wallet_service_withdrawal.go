package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
	"sportsbook/internal/utils"
)

// WithdrawalInput is a user's payout request.
type WithdrawalInput struct {
	Amount        decimal.Decimal
	BankAccountID uint
}

// RequestWithdrawal debits the wallet immediately and records a pending
// withdrawal holding a snapshot of the destination account.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID uint, in WithdrawalInput) (*WalletResult, error) {
	if !in.Amount.IsPositive() || !validMoney(in.Amount) {
		return nil, apperr.Validation("Withdrawal amount must be a positive amount with at most two decimal places")
	}
	if in.Amount.LessThan(s.minWithdrawal) {
		return nil, apperr.Validation("Minimum withdrawal amount is ₦%s", s.minWithdrawal)
	}
	if in.BankAccountID == 0 {
		return nil, apperr.New(apperr.CodeInvalidBank, "Please select a bank account")
	}

	var result WalletResult

	err := s.runTx(ctx, "request_withdrawal", func(repo *repository.Repository, tx *gorm.DB) error {
		account, err := repo.GetUserBankAccount(ctx, userID, in.BankAccountID)
		if apperr.Is(err, apperr.CodeNotFound) {
			return apperr.New(apperr.CodeInvalidBank, "Bank account not found")
		}
		if err != nil {
			return err
		}

		mv, err := ledger.Debit(ctx, tx, userID, in.Amount)
		if err != nil {
			return err
		}

		reference, err := utils.GenerateWithdrawalReference()
		if err != nil {
			return apperr.Internal("failed to generate withdrawal reference", err)
		}

		txn, _, err := repo.RecordTransaction(ctx, repository.RecordParams{
			UserID:      userID,
			Type:        models.TxWithdrawal,
			Amount:      in.Amount,
			Status:      models.TxPending,
			Description: fmt.Sprintf("Withdrawal of %s to %s - %s", naira(in.Amount), account.BankName, account.AccountNumber),
			Reference:   reference,
			BankAccount: account.Snapshot(),
		})
		if err != nil {
			return err
		}

		result = WalletResult{Transaction: txn, NewBalance: mv.After}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, events.LedgerEvent{
		Type:          events.WithdrawalRequested,
		UserID:        userID,
		Amount:        in.Amount,
		Balance:       result.NewBalance,
		Reference:     result.Transaction.Reference,
		TransactionID: result.Transaction.ID,
		Status:        string(models.TxPending),
	}, ledger.DirectionDebit)

	s.Logger.Info("withdrawal requested",
		zap.Uint("user_id", userID),
		zap.String("reference", result.Transaction.Reference),
		zap.Stringer("amount", in.Amount),
	)
	return &result, nil
}

// ApproveWithdrawal marks a pending withdrawal as paid out. The funds already
// left the wallet at request time.
func (s *WalletService) ApproveWithdrawal(ctx context.Context, adminID, txnID uint) (*WalletResult, error) {
	var result WalletResult

	err := s.runTx(ctx, "approve_withdrawal", func(repo *repository.Repository, tx *gorm.DB) error {
		txn, err := repo.TransitionTransaction(ctx, txnID, models.TxWithdrawal, models.TxPending, models.TxCompleted, adminID, s.Clock.Now())
		if err != nil {
			return err
		}

		balance, err := ledger.Balance(ctx, tx, txn.UserID)
		if err != nil {
			return err
		}
		result = WalletResult{Transaction: txn, NewBalance: balance}

		return logAdminAction(ctx, repo, adminID, models.ActionApproveWithdrawal, "transaction", &txn.ID, map[string]interface{}{
			"userId": txn.UserID,
			"amount": txn.Amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterWithdrawal(ctx, adminID, &result, events.WithdrawalApproved)
	return &result, nil
}

// RejectWithdrawal cancels a pending withdrawal and refunds its amount.
func (s *WalletService) RejectWithdrawal(ctx context.Context, adminID, txnID uint) (*WalletResult, error) {
	var result WalletResult

	err := s.runTx(ctx, "reject_withdrawal", func(repo *repository.Repository, tx *gorm.DB) error {
		txn, err := repo.TransitionTransaction(ctx, txnID, models.TxWithdrawal, models.TxPending, models.TxCancelled, adminID, s.Clock.Now())
		if err != nil {
			return err
		}

		mv, err := ledger.Credit(ctx, tx, txn.UserID, txn.Amount)
		if err != nil {
			return err
		}
		result = WalletResult{Transaction: txn, NewBalance: mv.After}

		return logAdminAction(ctx, repo, adminID, models.ActionRejectWithdrawal, "transaction", &txn.ID, map[string]interface{}{
			"userId": txn.UserID,
			"amount": txn.Amount.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterWithdrawal(ctx, adminID, &result, events.WithdrawalRejected)
	return &result, nil
}

func (s *WalletService) afterWithdrawal(ctx context.Context, adminID uint, result *WalletResult, eventType events.EventType) {
	txn := result.Transaction
	event := events.LedgerEvent{
		Type:          eventType,
		UserID:        txn.UserID,
		Balance:       result.NewBalance,
		Reference:     txn.Reference,
		TransactionID: txn.ID,
		Status:        string(txn.Status),
	}
	// Only a rejection moves money; approval finalizes the request-time debit.
	if eventType == events.WithdrawalRejected {
		event.Amount = txn.Amount
	}
	s.committed(ctx, event, ledger.DirectionCredit)

	s.Logger.Info("withdrawal processed",
		zap.Uint("admin_id", adminID),
		zap.Uint("transaction_id", txn.ID),
		zap.String("status", string(txn.Status)),
	)
}

// ListWithdrawals returns withdrawals across users, optionally filtered by status
func (s *WalletService) ListWithdrawals(ctx context.Context, status models.TransactionStatus, page repository.Page) ([]models.Transaction, int64, error) {
	return s.ListTransactions(ctx, TransactionQuery{Type: models.TxWithdrawal, Status: status, Page: page})
}
