package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sportsbook/internal/config"
	"sportsbook/internal/database"
	"sportsbook/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Create or update tables from the models
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), database.GormConfig(gormlogger.Default.LogMode(gormlogger.Warn)))
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate models", zap.Error(err))
	}
	if gormSQL, err := db.DB(); err == nil {
		gormSQL.Close()
	}

	// Apply the SQL hardening migrations over a plain driver connection
	conn, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer conn.Close()

	applied, err := applyMigrations(conn, logger)
	if err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("schema up to date", zap.Int("applied", applied))
}

func applyMigrations(conn *sql.DB, logger *zap.Logger) (int, error) {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations, err := database.SQLMigrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range migrations {
		var exists bool
		if err := conn.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.Name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("failed to check %s: %w", m.Name, err)
		}
		if exists {
			continue
		}

		logger.Info("applying migration", zap.String("name", m.Name))
		tx, err := conn.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
