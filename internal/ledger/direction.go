package ledger

import (
	"github.com/shopspring/decimal"

	"sportsbook/internal/models"
)

// Direction is the side of the wallet a transaction lands on.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// TypeDirection maps a transaction type to its wallet direction. It reports
// false for admin_adjustment, whose direction depends on the record.
func TypeDirection(t models.TransactionType) (Direction, bool) {
	switch t {
	case models.TxDeposit, models.TxBetWin, models.TxBetRefund:
		return DirectionCredit, true
	case models.TxWithdrawal, models.TxBet:
		return DirectionDebit, true
	}
	return "", false
}

// DirectionOf returns the wallet direction of a stored transaction.
func DirectionOf(t *models.Transaction) Direction {
	if d, ok := TypeDirection(t.Type); ok {
		return d
	}
	switch t.Adjustment {
	case models.AdjustSubtract:
		return DirectionDebit
	case models.AdjustSet:
		if t.BalanceBefore.Valid && t.BalanceAfter.Valid &&
			t.BalanceAfter.Decimal.LessThan(t.BalanceBefore.Decimal) {
			return DirectionDebit
		}
	}
	return DirectionCredit
}

// SignedAmount is the change t applied to the wallet. A cancelled withdrawal
// nets to zero because its refund reuses the same record.
func SignedAmount(t *models.Transaction) decimal.Decimal {
	switch {
	case t.Status == models.TxFailed:
		return decimal.Zero
	case t.Type == models.TxWithdrawal && t.Status == models.TxCancelled:
		return decimal.Zero
	case DirectionOf(t) == DirectionDebit:
		return t.Amount.Neg()
	}
	return t.Amount
}
