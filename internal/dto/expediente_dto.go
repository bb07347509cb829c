package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearExpedienteRequest struct {
	Codigo        string     `json:"codigo"      validate:"required,min=1,max=50"`
	Descripcion   string     `json:"descripcion" validate:"required,min=1"`
	TecnicoID     *NumericID `json:"tecnico_id"`
	Justificacion *string    `json:"justificacion"`
}

// ActualizarExpedienteRequest is sent both by technicians editing a pending
// record and by coordinators adjudicating it. Fields left out are unchanged.
// aprobador_id and fecha_estado are accepted for compatibility but always
// stamped by the server.
type ActualizarExpedienteRequest struct {
	Descripcion   *string    `json:"descripcion"   validate:"omitempty,min=1"`
	Estado        *string    `json:"estado"        validate:"omitempty,oneof=pendiente aprobado rechazado"`
	Justificacion *string    `json:"justificacion"`
	AprobadorID   *NumericID `json:"aprobador_id"`
}

type ExpedienteFilter struct {
	Estado    string `form:"estado"     validate:"omitempty,oneof=pendiente aprobado rechazado"`
	Activo    *bool  `form:"activo"`
	TecnicoID uint   `form:"tecnico_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ExpedienteResponse struct {
	ID                uint       `json:"id"`
	Codigo            string     `json:"codigo"`
	Descripcion       string     `json:"descripcion"`
	FechaRegistro     time.Time  `json:"fecha_registro"`
	TecnicoID         uint       `json:"tecnico_id"`
	TecnicoUsername   string     `json:"tecnico_username,omitempty"`
	Justificacion     *string    `json:"justificacion"`
	Estado            string     `json:"estado"`
	AprobadorID       *uint      `json:"aprobador_id"`
	AprobadorUsername string     `json:"aprobador_username,omitempty"`
	FechaEstado       *time.Time `json:"fecha_estado"`
	Activo            bool       `json:"activo"`
}
