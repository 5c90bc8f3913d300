package services

import (
	"context"

	"sportsbook/internal/paystack"
)

//go:generate mockgen -destination=mocks/mock_bank_resolver.go -package=mocks sportsbook/internal/services BankResolver

// BankResolver looks up banks and account holders with the payment provider.
type BankResolver interface {
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolvedAccount, error)
}

var _ BankResolver = (*paystack.Client)(nil)
