// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sportsbook/internal/database"
	"sportsbook/internal/models"
)

// NewDB opens a migrated in-memory SQLite database. A single connection keeps
// every query on the same in-memory database and serializes transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Discard))
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// CreateUser inserts a user holding wallet.
func CreateUser(t testing.TB, db *gorm.DB, username string, wallet string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Wallet:   decimal.RequireFromString(wallet),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateAdmin inserts a user flagged as admin.
func CreateAdmin(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := CreateUser(t, db, username, "0")
	if err := db.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	user.IsAdmin = true
	return user
}

// CreateBankAccount links a bank account to userID.
func CreateBankAccount(t testing.TB, db *gorm.DB, userID uint, accountNumber string, isDefault bool) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		UserID:        userID,
		BankName:      "Access Bank",
		AccountNumber: accountNumber,
		AccountName:   "Ada Obi",
		BankCode:      "044",
		IsDefault:     isDefault,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create bank account: %v", err)
	}
	return account
}

// CreateMatch inserts an upcoming match priced home/draw/away and 1X/12/X2.
func CreateMatch(t testing.TB, db *gorm.DB, home, away, homeOdds, drawOdds, awayOdds string) *models.Match {
	t.Helper()

	var odds models.MatchOdds
	odds.StraightWin.Home = decimal.RequireFromString(homeOdds)
	odds.StraightWin.Draw = decimal.RequireFromString(drawOdds)
	odds.StraightWin.Away = decimal.RequireFromString(awayOdds)
	odds.DoubleChance = map[string]decimal.Decimal{
		"1X": decimal.RequireFromString("1.20"),
		"12": decimal.RequireFromString("1.30"),
		"X2": decimal.RequireFromString("1.60"),
	}

	match := &models.Match{
		League:   datatypes.NewJSONType(models.League{Name: "Premier League", Country: "England"}),
		HomeTeam: datatypes.NewJSONType(models.Team{Name: home}),
		AwayTeam: datatypes.NewJSONType(models.Team{Name: away}),
		Date:     "2026-10-18",
		Time:     "15:00",
		Status:   models.MatchUpcoming,
		Odds:     datatypes.NewJSONType(odds),
	}
	if err := db.Create(match).Error; err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	return match
}

// Balance reads userID's wallet straight from the table.
func Balance(t testing.TB, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()

	var user models.User
	if err := db.Select("id", "wallet").Take(&user, userID).Error; err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return user.Wallet
}
