// Package daotest opens throwaway SQLite databases migrated with the
// application schema.
package daotest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recaudacion/rifas-api/internal/repository/dao"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:rifas_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dao.InitTables(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
