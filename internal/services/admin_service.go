package services

import (
	"context"

	"gorm.io/gorm"

	"sportsbook/internal/models"
	"sportsbook/internal/repository"
)

type AdminService struct {
	repo *repository.Repository
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{
		repo: repository.NewRepository(db),
	}
}

// IsAdmin checks if a user is an admin
func (s *AdminService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}

// GetAdminLogs returns admin activity logs newest first
func (s *AdminService) GetAdminLogs(ctx context.Context, page repository.Page) ([]models.AdminLog, int64, error) {
	return s.repo.ListAdminLogs(ctx, page)
}

// logAdminAction writes the audit row through repo, which may be bound to the
// transaction performing the action.
func logAdminAction(ctx context.Context, repo *repository.Repository, adminID uint, action string,
	resourceType string, resourceID *uint, details map[string]interface{}) error {

	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	return repo.CreateAdminLog(ctx, &adminLog)
}
