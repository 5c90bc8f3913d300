package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a bettor account. Wallet is only changed through the ledger.
type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Username     string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string          `gorm:"size:30" json:"phone,omitempty"`
	Wallet       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"wallet"`
	IsAdmin      bool            `gorm:"default:false" json:"isAdmin"`
	IsVerified   bool            `gorm:"default:false" json:"isVerified"`
	BankAccounts []BankAccount   `gorm:"foreignKey:UserID" json:"bankAccounts,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// BankAccount is a payout destination linked to a user. At most one per user is default.
type BankAccount struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	BankName      string    `gorm:"size:100;not null" json:"bankName"`
	AccountNumber string    `gorm:"size:20;not null" json:"accountNumber"`
	AccountName   string    `gorm:"size:150;not null" json:"accountName"`
	BankCode      string    `gorm:"size:20;not null" json:"bankCode"`
	IsDefault     bool      `gorm:"default:false" json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Snapshot copies the account details for embedding in a transaction.
func (b BankAccount) Snapshot() *BankSnapshot {
	return &BankSnapshot{
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		AccountName:   b.AccountName,
		BankCode:      b.BankCode,
	}
}

// BankSnapshot is the bank account as it was when a withdrawal was requested.
type BankSnapshot struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	BankCode      string `json:"bankCode"`
}
