package handler

import (
	"net/http"

	"evidencias/internal/dto"
	"evidencias/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpedientesHandler struct{ svc service.ExpedienteService }

func NewExpedientesHandler(svc service.ExpedienteService) *ExpedientesHandler {
	return &ExpedientesHandler{svc: svc}
}

// Listar godoc
// @Summary Listar expedientes
// @Tags expedientes
// @Produce json
// @Param estado query string false "pendiente | aprobado | rechazado"
// @Param activo query bool false "Filtrar por activo"
// @Param tecnico_id query int false "Técnico responsable"
// @Success 200 {array} dto.ExpedienteResponse
// @Security BearerAuth
// @Router /api/expedientes [get]
func (h *ExpedientesHandler) Listar(c *gin.Context) {
	var filter dto.ExpedienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtener expediente
// @Tags expedientes
// @Produce json
// @Param id path int true "ID del expediente"
// @Success 200 {object} dto.ExpedienteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/expedientes/{id} [get]
func (h *ExpedientesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registrar expediente
// @Description El técnico autenticado queda como responsable; el estado inicial es pendiente.
// @Tags expedientes
// @Accept json
// @Produce json
// @Param body body dto.CrearExpedienteRequest true "Expediente"
// @Success 201 {object} dto.ExpedienteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/expedientes [post]
func (h *ExpedientesHandler) Crear(c *gin.Context) {
	var req dto.CrearExpedienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req, actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Editar o dictaminar un expediente
// @Description Un cambio de estado requiere rol coordinador; aprobador_id y fecha_estado los asigna el servidor.
// @Tags expedientes
// @Accept json
// @Produce json
// @Param id path int true "ID del expediente"
// @Param body body dto.ActualizarExpedienteRequest true "Cambios"
// @Success 200 {object} dto.ExpedienteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/expedientes/{id} [put]
func (h *ExpedientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarExpedienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req, actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarActivo godoc
// @Summary Activar o desactivar expediente
// @Tags expedientes
// @Produce json
// @Param id path int true "ID del expediente"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/expedientes/activardesactivar/{id} [put]
func (h *ExpedientesHandler) CambiarActivo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CambiarActivo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
