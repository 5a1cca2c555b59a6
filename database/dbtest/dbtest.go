// Package dbtest opens throwaway stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"rps-game-system/config"
	"rps-game-system/database"
	"rps-game-system/utils"

	"gorm.io/gorm"
)

// Open returns a migrated SQLite store in a per-test temp dir.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseURL: filepath.Join(t.TempDir(), "game.db"),
	}
	db, err := database.Open(cfg, utils.DiscardLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
