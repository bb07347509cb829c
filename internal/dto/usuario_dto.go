package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Password string  `json:"password" validate:"required,min=4"`
	Rol      string  `json:"rol"      validate:"required,oneof=tecnico coordinador"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

// ActualizarUsuarioRequest carries optional changes. Username may be echoed
// back but must match the path; it can never be changed.
type ActualizarUsuarioRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password" validate:"omitempty,min=4"`
	Rol      string  `json:"rol"      validate:"omitempty,oneof=tecnico coordinador"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Rol       string    `json:"rol"`
	Email     *string   `json:"email,omitempty"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}
