// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"evidencias/internal/infra"
	"evidencias/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// Each call gets its own named database so parallel tests never share rows.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.RunMigrations(db))
	return db
}

// SeedUsuario inserts a user with a bcrypt hash of password. Pass activo=false
// to get an inactive account.
func SeedUsuario(t *testing.T, db *gorm.DB, username, password string, rol model.Rol, activo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.Usuario{Username: username, PasswordHash: string(hash), Rol: rol, Activo: true}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	if !activo {
		// default:true makes GORM skip a false zero value on insert.
		require.NoError(t, db.Model(u).Update("activo", false).Error)
		u.Activo = false
	}
	return u
}
