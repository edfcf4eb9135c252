package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// platformTables mirrors the subset of the platform schema this service reads.
var platformTables = []string{
	`CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE organization_members (
		user_id TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT,
		phone TEXT
	)`,
	`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		invite_code TEXT NOT NULL,
		commission_rate REAL
	)`,
	`CREATE TABLE event_partners (
		event_id TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		status TEXT NOT NULL,
		commission_rate REAL
	)`,
	`CREATE TABLE contracts (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		partner_organization_id TEXT,
		status TEXT NOT NULL,
		total_amount INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// DB opens a private in-memory database with the service tables migrated and
// the platform tables created.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&model.Configuration{},
		&model.UnitType{},
		&model.PartnerSheet{},
		&model.SheetColumn{},
		&model.SheetRow{},
		&model.IntegratedContract{},
		&model.IntegratedContractPartner{},
	); err != nil {
		tb.Fatalf("auto migrate: %v", err)
	}
	for _, stmt := range platformTables {
		if err := db.Exec(stmt).Error; err != nil {
			tb.Fatalf("create platform table: %v", err)
		}
	}
	return db
}
