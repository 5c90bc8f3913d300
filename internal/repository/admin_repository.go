package repository

import (
	"context"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// CreateAdminLog writes an audit row for an admin action
func (r *Repository) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperr.Internal("failed to write admin log", err)
	}
	return nil
}

// ListAdminLogs returns audit rows newest first
func (r *Repository) ListAdminLogs(ctx context.Context, page Page) ([]models.AdminLog, int64, error) {
	var logs []models.AdminLog
	var total int64

	err := r.db.WithContext(ctx).Model(&models.AdminLog{}).Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to count admin logs", err)
	}

	err = r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Scopes(paginate(page)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list admin logs", err)
	}
	return logs, total, nil
}
