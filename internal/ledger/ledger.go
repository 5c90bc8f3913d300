// Package ledger applies wallet mutations as atomic conditional updates.
//
// Every function takes the caller's transaction handle so the balance change
// commits or rolls back together with the bet and transaction records that
// justify it.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// Movement is the balance of one account around a mutation.
type Movement struct {
	UserID uint
	Before decimal.Decimal
	After  decimal.Decimal
}

// Delta is After minus Before.
func (m Movement) Delta() decimal.Decimal {
	return m.After.Sub(m.Before)
}

// Credit adds amount to the wallet of userID.
func Credit(ctx context.Context, tx *gorm.DB, userID uint, amount decimal.Decimal) (Movement, error) {
	if !amount.IsPositive() {
		return Movement{}, apperr.Validation("Amount must be greater than zero")
	}

	res := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet", gorm.Expr("wallet + ?", amount))
	if res.Error != nil {
		return Movement{}, apperr.Internal("failed to credit wallet", res.Error)
	}
	if res.RowsAffected == 0 {
		return Movement{}, apperr.NotFound("user")
	}

	after, err := Balance(ctx, tx, userID)
	if err != nil {
		return Movement{}, err
	}
	return Movement{UserID: userID, Before: after.Sub(amount), After: after}, nil
}

// Debit removes amount from the wallet of userID. The balance check and the
// decrement are a single statement, so concurrent debits can never overdraw.
func Debit(ctx context.Context, tx *gorm.DB, userID uint, amount decimal.Decimal) (Movement, error) {
	if !amount.IsPositive() {
		return Movement{}, apperr.Validation("Amount must be greater than zero")
	}

	res := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND wallet >= ?", userID, amount).
		Update("wallet", gorm.Expr("wallet - ?", amount))
	if res.Error != nil {
		return Movement{}, apperr.Internal("failed to debit wallet", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return Movement{}, apperr.Internal("failed to look up user", err)
		}
		if count == 0 {
			return Movement{}, apperr.NotFound("user")
		}
		return Movement{}, apperr.InsufficientFunds()
	}

	after, err := Balance(ctx, tx, userID)
	if err != nil {
		return Movement{}, err
	}
	return Movement{UserID: userID, Before: after.Add(amount), After: after}, nil
}

// SetBalance overwrites the wallet of userID. The row is locked first so the
// returned Before is the value actually replaced.
func SetBalance(ctx context.Context, tx *gorm.DB, userID uint, amount decimal.Decimal) (Movement, error) {
	if amount.IsNegative() {
		return Movement{}, apperr.Validation("Balance cannot be negative")
	}

	var user models.User
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "wallet").
		Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Movement{}, apperr.NotFound("user")
	}
	if err != nil {
		return Movement{}, apperr.Internal("failed to lock wallet", err)
	}

	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("wallet", amount).Error; err != nil {
		return Movement{}, apperr.Internal("failed to set wallet", err)
	}
	return Movement{UserID: userID, Before: user.Wallet, After: amount}, nil
}

// Balance reads the persisted wallet of userID.
func Balance(ctx context.Context, db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var user models.User
	err := db.WithContext(ctx).Select("id", "wallet").Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, apperr.NotFound("user")
	}
	if err != nil {
		return decimal.Zero, apperr.Internal("failed to read wallet", err)
	}
	return user.Wallet, nil
}
