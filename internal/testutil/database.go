// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"campus-availability-server/internal/models"

	"gorm.io/gorm"
)

// SeedPassword is the password every seeded faculty account receives in tests.
const SeedPassword = "password"

var dbCounter atomic.Int64

// NewTestDB opens a private in-memory SQLite database with the schema applied
// and the initial faculty directory seeded. It is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := models.InitDB(models.DatabaseConfig{Driver: "sqlite", DSN: dsn, Quiet: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := models.SeedFaculties(db, SeedPassword); err != nil {
		t.Fatalf("failed to seed faculties: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
