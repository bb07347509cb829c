package infra

import (
	"context"
	"fmt"
	"time"

	"evidencias/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM pool backed by pgx. The caller owns the pool and
// must release it with CloseDatabase on shutdown.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// CloseDatabase releases every pooled connection.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PingDatabase is the readiness probe used by /api/health/db.
func PingDatabase(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RunMigrations creates or updates the tables from the models, then applies the
// postgres-only constraints AutoMigrate cannot express. The canonical DDL lives
// in migrations/; this path serves DB_AUTO_MIGRATE deployments and tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Expediente{},
		&model.Indicio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches is idempotent: every statement is guarded by an existence check.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check usuarios.rol", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_usuarios_rol') THEN
    ALTER TABLE usuarios ADD CONSTRAINT chk_usuarios_rol
      CHECK (rol IN ('tecnico', 'coordinador'));
  END IF;
END $$`},
		{"check expedientes.estado", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_expedientes_estado') THEN
    ALTER TABLE expedientes ADD CONSTRAINT chk_expedientes_estado
      CHECK (estado IN ('pendiente', 'aprobado', 'rechazado'));
  END IF;
END $$`},
		{"check expedientes rechazado requires justificacion", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_expedientes_justificacion') THEN
    ALTER TABLE expedientes ADD CONSTRAINT chk_expedientes_justificacion
      CHECK (estado <> 'rechazado' OR (justificacion IS NOT NULL AND btrim(justificacion) <> ''));
  END IF;
END $$`},
		{"partial index for the review queue",
			`CREATE INDEX IF NOT EXISTS idx_expedientes_pendientes
			   ON expedientes (fecha_registro) WHERE estado = 'pendiente' AND activo = true`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
