package dto

import "time"

type ReporteAprobacionesFilter struct {
	Estado  string `form:"estado"  validate:"omitempty,oneof=pendiente aprobado rechazado"`
	Desde   string `form:"desde"   validate:"omitempty,datetime=2006-01-02"`
	Hasta   string `form:"hasta"   validate:"omitempty,datetime=2006-01-02"`
	Formato string `form:"formato" validate:"omitempty,oneof=json pdf"`
}

type ReporteIndiciosFilter struct {
	ExpedienteID uint   `form:"expediente_id"`
	Formato      string `form:"formato" validate:"omitempty,oneof=json pdf"`
}

type ReporteAprobacionesResponse struct {
	GeneradoEn  time.Time            `json:"generado_en"`
	Filtros     map[string]string    `json:"filtros"`
	Totales     map[string]int       `json:"totales"`
	Expedientes []ExpedienteResponse `json:"expedientes"`
}

type ReporteIndiciosResponse struct {
	GeneradoEn time.Time         `json:"generado_en"`
	Filtros    map[string]string `json:"filtros"`
	Total      int               `json:"total"`
	Indicios   []IndicioResponse `json:"indicios"`
}
