package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sportsbook/internal/config"
	"sportsbook/internal/models"
)

var DB *gorm.DB

//go:embed migrations/*.sql
var migrationFS embed.FS

// GormConfig is shared by the server, the migrate tool and tests.
func GormConfig(lg logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                                   lg,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

// Connect establishes a connection to the configured database
func Connect(cfg *config.Config, log *zap.Logger) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	var err error
	DB, err = gorm.Open(dialector, GormConfig(logger.Default.LogMode(logger.Error)))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// SQLite allows one writer; serialize through a single connection.
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connection established", zap.String("driver", cfg.Database.Driver))
	return nil
}

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.BankAccount{},
		&models.Match{},
		&models.Bet{},
		&models.Transaction{},
		&models.AdminLog{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate creates or updates the schema on db.
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}
	return nil
}

// Migration is an embedded SQL file applied by cmd/migrate after AutoMigrate.
type Migration struct {
	Name string
	SQL  string
}

// SQLMigrations returns the embedded PostgreSQL migrations in name order.
func SQLMigrations() ([]Migration, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		out = append(out, Migration{Name: name[len("migrations/"):], SQL: string(body)})
	}
	return out, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
