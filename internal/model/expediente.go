package model

import (
	"fmt"
	"time"
)

// Estado is the workflow state of an Expediente.
type Estado string

const (
	EstadoPendiente Estado = "pendiente"
	EstadoAprobado  Estado = "aprobado"
	EstadoRechazado Estado = "rechazado"
)

// Estados lists every valid workflow state.
var Estados = []Estado{EstadoPendiente, EstadoAprobado, EstadoRechazado}

func (e Estado) Valid() bool {
	switch e {
	case EstadoPendiente, EstadoAprobado, EstadoRechazado:
		return true
	default:
		return false
	}
}

// Dictaminado reports whether the state is the outcome of a coordinator review.
func (e Estado) Dictaminado() bool {
	switch e {
	case EstadoAprobado, EstadoRechazado:
		return true
	default:
		return false
	}
}

func ParseEstado(s string) (Estado, error) {
	e := Estado(s)
	if !e.Valid() {
		return "", fmt.Errorf("estado desconocido %q", s)
	}
	return e, nil
}

// Expediente is a case record opened by a technician and adjudicated by a coordinator.
// Activo is a soft-delete flag independent of Estado.
type Expediente struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	Codigo        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Descripcion   string    `gorm:"type:text;not null"`
	FechaRegistro time.Time `gorm:"autoCreateTime;not null"`
	TecnicoID     uint      `gorm:"not null;index"`
	Tecnico       *Usuario  `gorm:"foreignKey:TecnicoID"`
	Justificacion *string   `gorm:"type:text"`
	Estado        Estado    `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	AprobadorID   *uint
	Aprobador     *Usuario `gorm:"foreignKey:AprobadorID"`
	FechaEstado   *time.Time
	Activo        bool `gorm:"not null;default:true"`
	UpdatedAt     time.Time
}

func (Expediente) TableName() string { return "expedientes" }
