package model

import "time"

// Usuario stores system users with role-based access.
// Username is immutable once created; users are never hard-deleted.
// Email is optional and only used as a notification target.
type Usuario struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string  `gorm:"not null"`
	Rol          Rol     `gorm:"type:varchar(20);not null"`
	Email        *string `gorm:"type:varchar(255)"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Usuario) TableName() string { return "usuarios" }
