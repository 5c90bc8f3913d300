package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// CreateBet creates a new bet
func (r *Repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	if err := r.db.WithContext(ctx).Create(bet).Error; err != nil {
		return apperr.Internal("failed to create bet", err)
	}
	return nil
}

// GetBet retrieves a bet by ID
func (r *Repository) GetBet(ctx context.Context, id uint) (*models.Bet, error) {
	return r.findBet(ctx, r.db.Where("id = ?", id))
}

// GetUserBet retrieves a bet owned by userID. A bet owned by someone else is reported as missing.
func (r *Repository) GetUserBet(ctx context.Context, userID, id uint) (*models.Bet, error) {
	return r.findBet(ctx, r.db.Where("id = ? AND user_id = ?", id, userID))
}

func (r *Repository) findBet(ctx context.Context, query *gorm.DB) (*models.Bet, error) {
	var bet models.Bet
	err := query.WithContext(ctx).First(&bet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("bet")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get bet", err)
	}
	return &bet, nil
}

// BetFilter narrows a bet listing
type BetFilter struct {
	UserID *uint
	Status models.BetStatus
	Page   Page
}

func (f BetFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// ListBets returns matching bets newest first with the total count
func (r *Repository) ListBets(ctx context.Context, f BetFilter) ([]models.Bet, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Bet{}).
		Scopes(f.scope).
		Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to count bets", err)
	}

	var bets []models.Bet
	err = r.db.WithContext(ctx).
		Scopes(f.scope, paginate(f.Page)).
		Order("placed_at DESC, id DESC").
		Find(&bets).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list bets", err)
	}
	return bets, total, nil
}

// SettleBet moves a pending bet to a terminal status and stamps settled_at.
// It reports false when the bet was no longer pending.
func (r *Repository) SettleBet(ctx context.Context, id uint, to models.BetStatus, settledAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Bet{}).
		Where("id = ? AND status = ?", id, models.BetPending).
		Updates(map[string]interface{}{
			"status":     to,
			"settled_at": settledAt,
		})
	if res.Error != nil {
		return false, apperr.Internal("failed to update bet", res.Error)
	}
	return res.RowsAffected > 0, nil
}
