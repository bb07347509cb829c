// cmd/seeduser creates or resets a user, typically the first coordinator.
// Uso: go run ./cmd/seeduser -username coordinador -password 1234
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"evidencias/internal/config"
	"evidencias/internal/infra"
	"evidencias/internal/model"
	"evidencias/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "coordinador", "nombre de usuario")
	password := flag.String("password", "", "contraseña (obligatoria)")
	rolFlag := flag.String("rol", string(model.RolCoordinador), "tecnico | coordinador")
	email := flag.String("email", "", "correo para notificaciones (opcional)")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password es obligatorio")
	}
	rol, err := model.ParseRol(*rolFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("rol inválido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	defer infra.CloseDatabase(db)

	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	u := &model.Usuario{Username: *username, PasswordHash: hash, Rol: rol, Activo: true}
	if *email != "" {
		u.Email = email
	}

	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"password_hash": hash, "rol": rol, "activo": true}),
	}).Create(u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("insert error")
	}
	log.Info().Str("username", *username).Str("rol", rol.String()).Msg("usuario creado/actualizado")
}
