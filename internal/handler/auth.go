package handler

import (
	"net/http"

	"evidencias/internal/dto"
	"evidencias/internal/middleware"
	"evidencias/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Description Devuelve el token existente si el cliente ya envía uno válido para el mismo usuario.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} apierror.APIError
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	// A malformed body is treated as missing credentials.
	_ = c.ShouldBindJSON(&req)

	bearer, _ := middleware.BearerToken(c)
	resp, err := h.svc.Login(c.Request.Context(), req, bearer)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Cerrar sesión
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LogoutResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Logout(c.Request.Context()))
}
