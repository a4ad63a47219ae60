// Package testutil: helper DB untuk test (SQLite file per test).
package testutil

import (
	"path/filepath"
	"testing"

	database "sekolahku_backend/internals/databases"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB membuka SQLite baru di t.TempDir() lalu migrate semua tabel.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FailNthCreate: create ke-n (1-based) pada tabel `table` gagal dengan errFail.
// Dipakai untuk membuktikan batch all-or-nothing.
func FailNthCreate(t *testing.T, db *gorm.DB, table string, n int, errFail error) {
	t.Helper()

	seen := 0
	name := "testutil:fail_nth_create_" + table
	err := db.Callback().Create().Before("gorm:create").Register(name, func(d *gorm.DB) {
		if d.Statement.Table != table {
			return
		}
		seen++
		if seen == n {
			_ = d.AddError(errFail)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove(name) })
}
