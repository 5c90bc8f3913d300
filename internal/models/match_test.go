package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func sampleMatch() *Match {
	var odds MatchOdds
	odds.StraightWin.Home = decimal.RequireFromString("1.85")
	odds.StraightWin.Draw = decimal.RequireFromString("3.40")
	odds.StraightWin.Away = decimal.RequireFromString("4.10")
	odds.DoubleChance = map[string]decimal.Decimal{
		"1X": decimal.RequireFromString("1.25"),
		"12": decimal.RequireFromString("1.30"),
	}

	return &Match{
		ID:       9,
		League:   datatypes.NewJSONType(League{Name: "Premier League", Country: "England"}),
		HomeTeam: datatypes.NewJSONType(Team{Name: "Arsenal", ShortName: "ARS"}),
		AwayTeam: datatypes.NewJSONType(Team{Name: "Chelsea", ShortName: "CHE"}),
		Date:     "2026-10-18",
		Time:     "15:00",
		Status:   MatchUpcoming,
		Odds:     datatypes.NewJSONType(odds),
	}
}

func TestMatchOddsFor(t *testing.T) {
	m := sampleMatch()

	price, ok := m.OddsFor(BetTypeStraightWin, "draw")
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("3.4")))

	price, ok = m.OddsFor(BetTypeDoubleChance, "1X")
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("1.25")))

	_, ok = m.OddsFor(BetTypeDoubleChance, "X2")
	assert.False(t, ok, "unpriced option")

	_, ok = m.OddsFor(BetTypeStraightWin, "1X")
	assert.False(t, ok, "option from another market")

	_, ok = m.OddsFor("correctScore", "1-0")
	assert.False(t, ok)
}

func TestMatchSnapshot(t *testing.T) {
	snap := sampleMatch().Snapshot()

	assert.Equal(t, "Premier League", snap.League.Name)
	assert.Equal(t, "ARS", snap.HomeTeam.ShortName)
	assert.Equal(t, "Chelsea", snap.AwayTeam.Name)
	assert.Equal(t, MatchUpcoming, snap.Status)
	assert.Nil(t, snap.Score)
}

func TestBetTypeOptions(t *testing.T) {
	assert.True(t, BetTypeStraightWin.ValidOption("home"))
	assert.False(t, BetTypeStraightWin.ValidOption("X2"))
	assert.True(t, BetTypeDoubleChance.ValidOption("X2"))
	assert.False(t, BetType("overUnder").ValidOption("home"))

	assert.True(t, BetWon.IsTerminal())
	assert.False(t, BetPending.IsTerminal())
	assert.False(t, BetStatus("void").Valid())
}
