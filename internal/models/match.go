package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MatchStatus string

const (
	MatchUpcoming MatchStatus = "upcoming"
	MatchLive     MatchStatus = "live"
	MatchFinished MatchStatus = "finished"
)

type League struct {
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Country string `json:"country,omitempty"`
}

type Team struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	Logo      string `json:"logo,omitempty"`
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchOdds holds the current prices for the two supported markets.
type MatchOdds struct {
	StraightWin struct {
		Home decimal.Decimal `json:"home"`
		Draw decimal.Decimal `json:"draw"`
		Away decimal.Decimal `json:"away"`
	} `json:"straightWin"`
	DoubleChance map[string]decimal.Decimal `json:"doubleChance"` // 1X, 12, X2
}

// Match is a fixture in the odds catalog. Bets read it at placement and
// freeze what they need into their selections.
type Match struct {
	ID        uint                          `gorm:"primaryKey" json:"id"`
	League    datatypes.JSONType[League]    `json:"league"`
	HomeTeam  datatypes.JSONType[Team]      `json:"homeTeam"`
	AwayTeam  datatypes.JSONType[Team]      `json:"awayTeam"`
	Date      string                        `gorm:"size:20;not null" json:"date"`
	Time      string                        `gorm:"size:10;not null" json:"time"`
	Status    MatchStatus                   `gorm:"size:20;default:upcoming;index" json:"status"`
	Score     datatypes.JSONType[*Score]    `json:"score"`
	Odds      datatypes.JSONType[MatchOdds] `json:"odds"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

func (Match) TableName() string {
	return "matches"
}

// OddsFor returns the current price for an option of a market.
func (m *Match) OddsFor(betType BetType, option string) (decimal.Decimal, bool) {
	odds := m.Odds.Data()
	var price decimal.Decimal
	switch betType {
	case BetTypeStraightWin:
		switch option {
		case "home":
			price = odds.StraightWin.Home
		case "draw":
			price = odds.StraightWin.Draw
		case "away":
			price = odds.StraightWin.Away
		default:
			return decimal.Zero, false
		}
	case BetTypeDoubleChance:
		p, ok := odds.DoubleChance[option]
		if !ok {
			return decimal.Zero, false
		}
		price = p
	default:
		return decimal.Zero, false
	}
	return price, price.IsPositive()
}

// Snapshot captures the match as displayed when a bet is placed.
func (m *Match) Snapshot() MatchSnapshot {
	return MatchSnapshot{
		League:   m.League.Data(),
		Date:     m.Date,
		Time:     m.Time,
		Status:   m.Status,
		HomeTeam: m.HomeTeam.Data(),
		AwayTeam: m.AwayTeam.Data(),
		Score:    m.Score.Data(),
	}
}

// MatchSnapshot is the frozen copy of a match stored with a selection.
type MatchSnapshot struct {
	League   League      `json:"league"`
	Date     string      `json:"date"`
	Time     string      `json:"time"`
	Status   MatchStatus `json:"status"`
	HomeTeam Team        `json:"homeTeam"`
	AwayTeam Team        `json:"awayTeam"`
	Score    *Score      `json:"score,omitempty"`
}
