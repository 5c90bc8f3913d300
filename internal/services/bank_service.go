package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
	"sportsbook/internal/paystack"
	"sportsbook/internal/repository"
)

// BankService manages a user's linked payout accounts.
type BankService struct {
	db       *gorm.DB
	repo     *repository.Repository
	resolver BankResolver
	logger   *zap.Logger
}

func NewBankService(db *gorm.DB, resolver BankResolver, logger *zap.Logger) *BankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankService{
		db:       db,
		repo:     repository.NewRepository(db),
		resolver: resolver,
		logger:   logger,
	}
}

// ListSupportedBanks returns the banks the payment provider can pay out to
func (s *BankService) ListSupportedBanks(ctx context.Context) ([]paystack.Bank, error) {
	banks, err := s.resolver.ListBanks(ctx)
	if err != nil {
		s.logger.Warn("failed to list banks", zap.Error(err))
		return nil, apperr.Wrap(apperr.CodeUpstream, "Unable to fetch banks at the moment", err)
	}

	active := banks[:0]
	for _, b := range banks {
		if b.Active {
			active = append(active, b)
		}
	}
	return active, nil
}

// ResolveAccount looks up the account holder name for an account number.
func (s *BankService) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolvedAccount, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	bankCode = strings.TrimSpace(bankCode)
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if bankCode == "" {
		return nil, apperr.New(apperr.CodeInvalidBank, "Bank code is required")
	}

	resolved, err := s.resolver.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		s.logger.Warn("failed to resolve bank account",
			zap.String("bank_code", bankCode),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.CodeUpstream, "Could not verify bank account", err)
	}
	return resolved, nil
}

// validateAccountNumber checks for a 10 digit NUBAN.
func validateAccountNumber(accountNumber string) error {
	if len(accountNumber) != 10 {
		return apperr.New(apperr.CodeInvalidBank, "Account number must be 10 digits")
	}
	for _, r := range accountNumber {
		if r < '0' || r > '9' {
			return apperr.New(apperr.CodeInvalidBank, "Account number must be 10 digits")
		}
	}
	return nil
}

// ListBankAccounts returns the user's accounts oldest first
func (s *BankService) ListBankAccounts(ctx context.Context, userID uint) ([]models.BankAccount, error) {
	return s.repo.ListBankAccounts(ctx, userID)
}

// BankAccountInput is a new payout account. An empty AccountName is filled
// from the provider's lookup.
type BankAccountInput struct {
	BankName      string
	BankCode      string
	AccountNumber string
	AccountName   string
}

// AddBankAccount links an account. The user's first account becomes default.
func (s *BankService) AddBankAccount(ctx context.Context, userID uint, in BankAccountInput) (*models.BankAccount, error) {
	in.BankName = strings.TrimSpace(in.BankName)
	in.BankCode = strings.TrimSpace(in.BankCode)
	in.AccountNumber = strings.TrimSpace(in.AccountNumber)
	in.AccountName = strings.TrimSpace(in.AccountName)

	if in.BankName == "" || in.BankCode == "" {
		return nil, apperr.New(apperr.CodeInvalidBank, "Bank name and code are required")
	}
	if err := validateAccountNumber(in.AccountNumber); err != nil {
		return nil, err
	}
	if in.AccountName == "" {
		resolved, err := s.ResolveAccount(ctx, in.AccountNumber, in.BankCode)
		if err != nil {
			return nil, err
		}
		in.AccountName = resolved.AccountName
	}

	var account *models.BankAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.HasBankAccount(ctx, userID, in.BankCode, in.AccountNumber)
		if err != nil {
			return err
		}
		if exists {
			return apperr.New(apperr.CodeInvalidBank, "This bank account is already linked")
		}

		existing, err := repo.ListBankAccounts(ctx, userID)
		if err != nil {
			return err
		}

		account = &models.BankAccount{
			UserID:        userID,
			BankName:      in.BankName,
			BankCode:      in.BankCode,
			AccountNumber: in.AccountNumber,
			AccountName:   in.AccountName,
			IsDefault:     len(existing) == 0,
		}
		return repo.CreateBankAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank account added",
		zap.Uint("user_id", userID),
		zap.Uint("bank_account_id", account.ID),
		zap.Bool("default", account.IsDefault),
	)
	return account, nil
}

// DeleteBankAccount unlinks an account. If it was the default, the oldest
// remaining account takes over.
func (s *BankService) DeleteBankAccount(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		account, err := repo.GetUserBankAccount(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := repo.DeleteBankAccount(ctx, userID, id); err != nil {
			return err
		}
		if !account.IsDefault {
			return nil
		}

		remaining, err := repo.ListBankAccounts(ctx, userID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		return repo.MakeDefaultBankAccount(ctx, userID, remaining[0].ID)
	})
}

// SetDefaultBankAccount makes id the user's only default account
func (s *BankService) SetDefaultBankAccount(ctx context.Context, userID, id uint) (*models.BankAccount, error) {
	var account *models.BankAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MakeDefaultBankAccount(ctx, userID, id); err != nil {
			return err
		}
		var err error
		account, err = repo.GetUserBankAccount(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
