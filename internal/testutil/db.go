// Package testutil opens throwaway SQLite stores for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roombooking/internal/core/database"
	"roombooking/internal/domain"
	"roombooking/internal/repo"
)

// NewDB returns a migrated SQLite database in t.TempDir. Writers take the
// lock at BEGIN so concurrent create-booking transactions serialize.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "rooms.db") + "?_txlock=immediate&_busy_timeout=10000&_foreign_keys=on"
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 8,
		MaxIdleConns: 8,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user directly through the repository.
func SeedUser(t testing.TB, db *gorm.DB, name string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{Name: name, Role: role}
	require.NoError(t, repo.NewUserRepo(db).Create(context.Background(), &u))
	return u
}
