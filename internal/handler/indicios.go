package handler

import (
	"net/http"

	"evidencias/internal/dto"
	"evidencias/internal/service"

	"github.com/gin-gonic/gin"
)

type IndiciosHandler struct{ svc service.IndicioService }

func NewIndiciosHandler(svc service.IndicioService) *IndiciosHandler {
	return &IndiciosHandler{svc: svc}
}

// Listar godoc
// @Summary Listar indicios
// @Tags indicios
// @Produce json
// @Success 200 {array} dto.IndicioResponse
// @Security BearerAuth
// @Router /api/indicios [get]
func (h *IndiciosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorExpediente godoc
// @Summary Listar indicios de un expediente
// @Tags indicios
// @Produce json
// @Param expediente_id path int true "ID del expediente"
// @Success 200 {array} dto.IndicioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/indicios/expediente/{expediente_id} [get]
func (h *IndiciosHandler) ListarPorExpediente(c *gin.Context) {
	id, ok := parseID(c, "expediente_id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorExpediente(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtener indicio
// @Tags indicios
// @Produce json
// @Param id path int true "ID del indicio"
// @Success 200 {object} dto.IndicioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/indicios/{id} [get]
func (h *IndiciosHandler) Obtener(c *gin.Context) {
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
// @Summary Registrar indicio
// @Description expediente_id y tecnico_id deben ser numéricos; un peso no numérico se guarda como nulo.
// @Tags indicios
// @Accept json
// @Produce json
// @Param body body dto.CrearIndicioRequest true "Indicio"
// @Success 201 {object} dto.IndicioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/indicios [post]
func (h *IndiciosHandler) Crear(c *gin.Context) {
	var req dto.CrearIndicioRequest
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
// @Summary Editar indicio
// @Description Solo se modifican los campos presentes; "peso": null borra el peso.
// @Tags indicios
// @Accept json
// @Produce json
// @Param id path int true "ID del indicio"
// @Param body body dto.ActualizarIndicioRequest true "Cambios"
// @Success 200 {object} dto.IndicioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/indicios/{id} [put]
func (h *IndiciosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarIndicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarActivo godoc
// @Summary Activar o desactivar indicio
// @Tags indicios
// @Produce json
// @Param id path int true "ID del indicio"
// @Success 200 {object} dto.ToggleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/indicios/activardesactivar/{id} [put]
func (h *IndiciosHandler) CambiarActivo(c *gin.Context) {
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
