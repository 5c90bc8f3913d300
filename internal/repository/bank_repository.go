package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// ListBankAccounts returns the user's accounts oldest first
func (r *Repository) ListBankAccounts(ctx context.Context, userID uint) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, apperr.Internal("failed to list bank accounts", err)
	}
	return accounts, nil
}

// GetUserBankAccount retrieves an account owned by userID
func (r *Repository) GetUserBankAccount(ctx context.Context, userID, id uint) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("bank account")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get bank account", err)
	}
	return &account, nil
}

// HasBankAccount reports whether the user already linked this account number at this bank
func (r *Repository) HasBankAccount(ctx context.Context, userID uint, bankCode, accountNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BankAccount{}).
		Where("user_id = ? AND bank_code = ? AND account_number = ?", userID, bankCode, accountNumber).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check bank account", err)
	}
	return count > 0, nil
}

// CreateBankAccount links a new account
func (r *Repository) CreateBankAccount(ctx context.Context, account *models.BankAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return apperr.Internal("failed to create bank account", err)
	}
	return nil
}

// DeleteBankAccount removes an account owned by userID
func (r *Repository) DeleteBankAccount(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.BankAccount{})
	if res.Error != nil {
		return apperr.Internal("failed to delete bank account", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("bank account")
	}
	return nil
}

// MakeDefaultBankAccount clears the user's default flag and sets it on id
func (r *Repository) MakeDefaultBankAccount(ctx context.Context, userID, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.BankAccount{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		return apperr.Internal("failed to clear default bank account", err)
	}

	res := r.db.WithContext(ctx).Model(&models.BankAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_default", true)
	if res.Error != nil {
		return apperr.Internal("failed to set default bank account", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("bank account")
	}
	return nil
}
