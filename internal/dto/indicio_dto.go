package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearIndicioRequest struct {
	ExpedienteID NumericID  `json:"expediente_id" validate:"required"`
	Descripcion  string     `json:"descripcion"   validate:"required,min=1"`
	Color        *string    `json:"color"`
	Tamano       *string    `json:"tamano"`
	Peso         Peso       `json:"peso"`
	Ubicacion    *string    `json:"ubicacion"`
	TecnicoID    *NumericID `json:"tecnico_id"`
}

// ActualizarIndicioRequest replaces the descriptive fields that are present.
// "peso": null clears the stored weight; an omitted peso keeps it.
type ActualizarIndicioRequest struct {
	Descripcion *string `json:"descripcion" validate:"omitempty,min=1"`
	Color       *string `json:"color"`
	Tamano      *string `json:"tamano"`
	Peso        Peso    `json:"peso"`
	Ubicacion   *string `json:"ubicacion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IndicioResponse struct {
	ID               uint                `json:"id"`
	ExpedienteID     uint                `json:"expediente_id"`
	ExpedienteCodigo string              `json:"expediente_codigo,omitempty"`
	Descripcion      string              `json:"descripcion"`
	Color            *string             `json:"color"`
	Tamano           *string             `json:"tamano"`
	Peso             decimal.NullDecimal `json:"peso"`
	Ubicacion        *string             `json:"ubicacion"`
	TecnicoID        uint                `json:"tecnico_id"`
	TecnicoUsername  string              `json:"tecnico_username,omitempty"`
	FechaRegistro    time.Time           `json:"fecha_registro"`
	Activo           bool                `json:"activo"`
}
