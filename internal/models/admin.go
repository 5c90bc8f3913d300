package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin log actions
const (
	ActionSettleBet         = "SETTLE_BET"
	ActionApproveWithdrawal = "APPROVE_WITHDRAWAL"
	ActionRejectWithdrawal  = "REJECT_WITHDRAWAL"
	ActionAdjustWallet      = "ADJUST_WALLET"
)

// AdminLog records an administrative action for audit
type AdminLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AdminID      uint              `gorm:"not null;index" json:"adminId"`
	Action       string            `gorm:"size:50;not null" json:"action"`
	ResourceType string            `gorm:"size:50" json:"resourceType"`
	ResourceID   *uint             `json:"resourceId,omitempty"`
	Details      datatypes.JSONMap `json:"details"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
