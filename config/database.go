package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hexpertify/moodlift/models"
)

var db *gorm.DB

// InitDatabase connects using configuration values and performs safe migrations.
func InitDatabase(modelDefs ...interface{}) *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()
	conn, err := OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	applied, err := EnsureSchema(conn, modelDefs...)
	if err != nil {
		log.Fatalf("schema check failed: %v", err)
	}
	for _, change := range applied {
		log.Printf("schema: %s", change)
	}

	db = conn
	return db
}

// OpenDatabase opens the configured driver and tunes the pool.
func OpenDatabase(cfg AppConfig) (*gorm.DB, error) {
	// Derive GORM logger level from the app LogLevel and raise slow-sql threshold to reduce noise
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.DBDriver) {
	case "sqlite":
		path := cfg.DatabaseURI
		if path == "" {
			path = cfg.DBName + ".db"
		}
		dialector = sqlite.Open(path)
	case "mysql", "":
		dialector = mysql.Open(mysqlDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// Ping at boot so network and credential problems surface before the first query
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

func mysqlDSN(cfg AppConfig) string {
	if cfg.DatabaseURI != "" {
		return cfg.DatabaseURI
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)
}

// EnsureSchema creates missing tables and adds known columns to existing ones.
// Existing tables are never dropped or altered beyond additive changes. It returns the changes applied.
func EnsureSchema(conn *gorm.DB, modelDefs ...interface{}) ([]string, error) {
	var applied []string
	m := conn.Migrator()
	for _, model := range modelDefs {
		if !m.HasTable(model) {
			if err := conn.AutoMigrate(model); err != nil {
				return applied, fmt.Errorf("auto migration failed for %T: %w", model, err)
			}
			applied = append(applied, fmt.Sprintf("created table for %T", model))
			continue
		}

		switch model.(type) {
		case *models.SeoMetadata:
			changes, err := addMissing(conn, &models.SeoMetadata{}, "GameID", "idx_seo_metadata_game_id")
			if err != nil {
				return applied, err
			}
			applied = append(applied, changes...)
		case *models.Game:
			changes, err := addMissing(conn, &models.Game{}, "IsPopular", "idx_games_is_popular")
			if err != nil {
				return applied, err
			}
			applied = append(applied, changes...)
		}
	}
	return applied, nil
}

// MissingColumns reports the additive columns not yet present, without changing anything.
func MissingColumns(conn *gorm.DB) []string {
	var missing []string
	m := conn.Migrator()
	if m.HasTable(&models.SeoMetadata{}) && !m.HasColumn(&models.SeoMetadata{}, "GameID") {
		missing = append(missing, "seo_metadata.game_id")
	}
	if m.HasTable(&models.Game{}) && !m.HasColumn(&models.Game{}, "IsPopular") {
		missing = append(missing, "games.is_popular")
	}
	return missing
}

func addMissing(conn *gorm.DB, model interface{}, field, index string) ([]string, error) {
	var applied []string
	m := conn.Migrator()
	if !m.HasColumn(model, field) {
		if err := m.AddColumn(model, field); err != nil {
			return nil, fmt.Errorf("add column %T.%s: %w", model, field, err)
		}
		applied = append(applied, fmt.Sprintf("added column %T.%s", model, field))
	}
	if !m.HasIndex(model, index) {
		if err := m.CreateIndex(model, index); err != nil {
			return applied, fmt.Errorf("create index %s: %w", index, err)
		}
		applied = append(applied, "created index "+index)
	}
	return applied, nil
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to the initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
