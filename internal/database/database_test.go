package database_test

import (
	"path/filepath"
	"testing"

	"github.com/miat-mn/action-log/internal/config"
	"github.com/miat-mn/action-log/internal/database"
	"github.com/miat-mn/action-log/internal/database/databasetest"
	"github.com/miat-mn/action-log/internal/models"
)

func TestMigrateSeedsRolesIdempotently(t *testing.T) {
	db := databasetest.Open(t)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var roles []models.AdminRole
	if err := db.Order("id").Find(&roles).Error; err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 5 {
		t.Fatalf("roles = %d, want 5", len(roles))
	}
	if roles[0].ID != models.RoleAdmin || roles[4].Name != "super-admin" {
		t.Fatalf("unexpected roles: %+v", roles)
	}
}

func TestOpenSQLiteAndPing(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBName:         filepath.Join(t.TempDir(), "open.sqlite"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close(db)

	if err := database.Ping(db); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := database.Open(&config.Config{DBDriver: "oracle"}); err == nil {
		t.Fatalf("Open() expected error for unsupported driver")
	}
}
