package handler

import (
	"net/http"

	"evidencias/internal/dto"
	"evidencias/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Listar godoc
// @Summary Listar usuarios
// @Tags usuarios
// @Produce json
// @Success 200 {array} dto.UsuarioResponse
// @Failure 403 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtener usuario
// @Tags usuarios
// @Produce json
// @Param username path string true "Nombre de usuario"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/usuarios/{username} [get]
func (h *UsuariosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerPorUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Crear usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Param body body dto.CrearUsuarioRequest true "Usuario"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/usuarios [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Editar usuario
// @Description El nombre de usuario no puede modificarse.
// @Tags usuarios
// @Accept json
// @Produce json
// @Param username path string true "Nombre de usuario"
// @Param body body dto.ActualizarUsuarioRequest true "Cambios"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/usuarios/{username} [put]
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarActivo godoc
// @Summary Activar o desactivar usuario
// @Tags usuarios
// @Produce json
// @Param username path string true "Nombre de usuario"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/usuarios/activardesactivar/{username} [put]
func (h *UsuariosHandler) CambiarActivo(c *gin.Context) {
	resp, err := h.svc.CambiarActivo(c.Request.Context(), c.Param("username"), actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
