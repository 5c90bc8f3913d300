package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionType string

const (
	TxDeposit         TransactionType = "deposit"
	TxWithdrawal      TransactionType = "withdrawal"
	TxBet             TransactionType = "bet"
	TxBetWin          TransactionType = "bet_win"
	TxBetRefund       TransactionType = "bet_refund"
	TxAdminAdjustment TransactionType = "admin_adjustment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxBet, TxBetWin, TxBetRefund, TxAdminAdjustment:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxFailed, TxCancelled:
		return true
	}
	return false
}

// AdjustmentKind is the admin operation behind an admin_adjustment transaction.
type AdjustmentKind string

const (
	AdjustAdd      AdjustmentKind = "add"
	AdjustSubtract AdjustmentKind = "subtract"
	AdjustSet      AdjustmentKind = "set"
)

func (k AdjustmentKind) Valid() bool {
	return k == AdjustAdd || k == AdjustSubtract || k == AdjustSet
}

// Transaction is one money-movement event. Amount is never negative; its
// direction follows from Type (see ledger.DirectionOf).
type Transaction struct {
	ID               uint                              `gorm:"primaryKey" json:"id"`
	UserID           uint                              `gorm:"not null;index" json:"userId"`
	Type             TransactionType                   `gorm:"size:30;not null;index" json:"type"`
	Amount           decimal.Decimal                   `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status           TransactionStatus                 `gorm:"size:20;not null;default:pending;index" json:"status"`
	Description      string                            `gorm:"type:text;not null" json:"description"`
	Reference        string                            `gorm:"size:100;uniqueIndex;not null" json:"reference"`
	PaymentReference string                            `gorm:"size:100" json:"paymentReference,omitempty"`
	BankAccount      datatypes.JSONType[*BankSnapshot] `json:"bankAccount"`
	BetID            *uint                             `gorm:"index" json:"betId,omitempty"`
	Adjustment       AdjustmentKind                    `gorm:"size:20" json:"adjustment,omitempty"`
	BalanceBefore    decimal.NullDecimal               `gorm:"type:decimal(18,2)" json:"balanceBefore"`
	BalanceAfter     decimal.NullDecimal               `gorm:"type:decimal(18,2)" json:"balanceAfter"`
	ProcessedBy      *uint                             `json:"processedBy,omitempty"`
	ProcessedAt      *time.Time                        `json:"processedAt,omitempty"`
	CreatedAt        time.Time                         `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time                         `json:"updatedAt"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
