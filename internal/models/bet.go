package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s BetStatus) IsTerminal() bool {
	return s == BetWon || s == BetLost || s == BetCancelled
}

func (s BetStatus) Valid() bool {
	return s == BetPending || s.IsTerminal()
}

type BetType string

const (
	BetTypeStraightWin  BetType = "straightWin"
	BetTypeDoubleChance BetType = "doubleChance"
)

// ValidOption reports whether option belongs to the bet type's market.
func (t BetType) ValidOption(option string) bool {
	switch t {
	case BetTypeStraightWin:
		return option == "home" || option == "draw" || option == "away"
	case BetTypeDoubleChance:
		return option == "1X" || option == "12" || option == "X2"
	}
	return false
}

// Selection is one leg of an accumulator with its odds frozen at placement.
type Selection struct {
	MatchID uint            `json:"matchId"`
	Match   MatchSnapshot   `json:"match"`
	BetType BetType         `json:"betType"`
	Option  string          `json:"option"`
	Odds    decimal.Decimal `json:"odds"`
	Label   string          `json:"label,omitempty"`
}

// Bet is an accumulator wager. Stake, TotalOdds and PotentialWin never change after placement.
type Bet struct {
	ID           uint                            `gorm:"primaryKey" json:"id"`
	Reference    string                          `gorm:"size:64;uniqueIndex;not null" json:"betId"`
	UserID       uint                            `gorm:"not null;index" json:"userId"`
	Selections   datatypes.JSONType[[]Selection] `gorm:"not null" json:"selections"`
	Stake        decimal.Decimal                 `gorm:"type:decimal(18,2);not null" json:"stake"`
	TotalOdds    decimal.Decimal                 `gorm:"type:decimal(18,4);not null" json:"totalOdds"`
	PotentialWin decimal.Decimal                 `gorm:"type:decimal(18,2);not null" json:"potentialWin"`
	Status       BetStatus                       `gorm:"size:20;not null;default:pending;index" json:"status"`
	PlacedAt     time.Time                       `gorm:"not null;index" json:"placedAt"`
	SettledAt    *time.Time                      `json:"settledAt,omitempty"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

func (Bet) TableName() string {
	return "bets"
}
