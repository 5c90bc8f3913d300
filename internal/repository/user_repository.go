package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by case-insensitive email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	return &user, nil
}

// IsAdmin reports whether userID has the admin flag set
func (r *Repository) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_admin = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check admin", err)
	}
	return count > 0, nil
}

// FieldTaken reports whether another user already holds value in column.
// column must be one of username, email or phone.
func (r *Repository) FieldTaken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	switch column {
	case "username", "email", "phone":
	default:
		return false, apperr.Internal("unsupported user column", nil)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, exceptID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check "+column, err)
	}
	return count > 0, nil
}

// UpdateUserProfile writes the given profile columns
func (r *Repository) UpdateUserProfile(ctx context.Context, userID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation("Username or email already in use")
	}
	if err != nil {
		return apperr.Internal("failed to update profile", err)
	}
	return nil
}
