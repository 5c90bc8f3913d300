package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{repo: repository.NewRepository(db)}
}

// GetProfile returns the user with their linked bank accounts
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListBankAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.BankAccounts = accounts
	return user, nil
}

// ProfileInput holds the editable profile fields. Empty fields are left as is.
type ProfileInput struct {
	Username string
	Email    string
	Phone    string
}

// UpdateProfile changes username, email or phone. A changed email must be
// verified again.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		column, value, current, taken string
	}{
		{"username", strings.TrimSpace(in.Username), user.Username, "Username already taken"},
		{"email", strings.ToLower(strings.TrimSpace(in.Email)), user.Email, "Email already in use"},
		{"phone", strings.TrimSpace(in.Phone), user.Phone, "Phone number already in use"},
	}

	updates := map[string]interface{}{}
	for _, f := range fields {
		if f.value == "" || f.value == f.current {
			continue
		}
		taken, err := s.repo.FieldTaken(ctx, f.column, f.value, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Validation("%s", f.taken)
		}
		updates[f.column] = f.value
	}
	if _, ok := updates["email"]; ok {
		updates["is_verified"] = false
	}

	if err := s.repo.UpdateUserProfile(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UserOverview is the admin console view of one user.
type UserOverview struct {
	User         *models.User         `json:"user"`
	Bets         []models.Bet         `json:"bets"`
	Transactions []models.Transaction `json:"transactions"`
}

const overviewSize = 10

// GetUserOverview returns a user with their most recent bets and transactions
func (s *UserService) GetUserOverview(ctx context.Context, userID uint) (*UserOverview, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := repository.Page{Page: 1, Limit: overviewSize}
	bets, _, err := s.repo.ListBets(ctx, repository.BetFilter{UserID: &userID, Page: recent})
	if err != nil {
		return nil, err
	}
	txns, _, err := s.repo.ListTransactions(ctx, repository.TransactionFilter{UserID: &userID, Page: recent})
	if err != nil {
		return nil, err
	}

	return &UserOverview{User: user, Bets: bets, Transactions: txns}, nil
}
