package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Indicio is an evidence item attached to exactly one Expediente.
// It has no workflow of its own, only the Activo soft-delete toggle.
type Indicio struct {
	ID            uint                `gorm:"primaryKey;autoIncrement"`
	ExpedienteID  uint                `gorm:"not null;index"`
	Expediente    *Expediente         `gorm:"foreignKey:ExpedienteID"`
	Descripcion   string              `gorm:"type:text;not null"`
	Color         *string             `gorm:"type:varchar(50)"`
	Tamano        *string             `gorm:"type:varchar(50)"`
	Peso          decimal.NullDecimal `gorm:"type:numeric(10,3)"`
	Ubicacion     *string             `gorm:"type:varchar(255)"`
	TecnicoID     uint                `gorm:"not null"`
	Tecnico       *Usuario            `gorm:"foreignKey:TecnicoID"`
	FechaRegistro time.Time           `gorm:"autoCreateTime;not null"`
	Activo        bool                `gorm:"not null;default:true"`
	UpdatedAt     time.Time
}

func (Indicio) TableName() string { return "indicios" }
