package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionUsuario struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
}

type LoginResponse struct {
	StatusCode int           `json:"statusCode"`
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	User       SesionUsuario `json:"user"`
	Token      string        `json:"token"`
}

type LogoutResponse struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}
