package handler

import (
	"fmt"
	"net/http"
	"time"

	"evidencias/internal/dto"
	"evidencias/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Aprobaciones godoc
// @Summary Reporte de aprobaciones y rechazos
// @Tags reportes
// @Produce json,application/pdf
// @Param estado query string false "pendiente | aprobado | rechazado"
// @Param desde query string false "AAAA-MM-DD"
// @Param hasta query string false "AAAA-MM-DD"
// @Param formato query string false "json | pdf"
// @Success 200 {object} dto.ReporteAprobacionesResponse
// @Security BearerAuth
// @Router /api/reportes/aprobaciones [get]
func (h *ReportesHandler) Aprobaciones(c *gin.Context) {
	var f dto.ReporteAprobacionesFilter
	if !bindQuery(c, &f) {
		return
	}
	if f.Formato == "pdf" {
		pdf, err := h.svc.AprobacionesPDF(c.Request.Context(), f)
		if err != nil {
			responderError(c, err)
			return
		}
		enviarPDF(c, "reporte_aprobaciones", pdf)
		return
	}
	resp, err := h.svc.Aprobaciones(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Indicios godoc
// @Summary Reporte de indicios
// @Tags reportes
// @Produce json,application/pdf
// @Param expediente_id query int false "Limitar a un expediente"
// @Param formato query string false "json | pdf"
// @Success 200 {object} dto.ReporteIndiciosResponse
// @Security BearerAuth
// @Router /api/reportes/indicios [get]
func (h *ReportesHandler) Indicios(c *gin.Context) {
	var f dto.ReporteIndiciosFilter
	if !bindQuery(c, &f) {
		return
	}
	if f.Formato == "pdf" {
		pdf, err := h.svc.IndiciosPDF(c.Request.Context(), f)
		if err != nil {
			responderError(c, err)
			return
		}
		enviarPDF(c, "reporte_indicios", pdf)
		return
	}
	resp, err := h.svc.Indicios(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func enviarPDF(c *gin.Context, nombre string, pdf []byte) {
	filename := fmt.Sprintf("%s_%s.pdf", nombre, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
