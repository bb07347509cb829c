package service

import (
	"bytes"
	"context"
	"time"

	"evidencias/internal/dto"
	"evidencias/internal/infra"
	"evidencias/internal/model"
	"evidencias/internal/repository"
)

const fechaFiltro = "2006-01-02"

type ReporteService interface {
	Aprobaciones(ctx context.Context, f dto.ReporteAprobacionesFilter) (*dto.ReporteAprobacionesResponse, error)
	Indicios(ctx context.Context, f dto.ReporteIndiciosFilter) (*dto.ReporteIndiciosResponse, error)
	AprobacionesPDF(ctx context.Context, f dto.ReporteAprobacionesFilter) ([]byte, error)
	IndiciosPDF(ctx context.Context, f dto.ReporteIndiciosFilter) ([]byte, error)
}

type reporteService struct {
	expedienteRepo repository.ExpedienteRepository
	indicioRepo    repository.IndicioRepository
	now            func() time.Time
}

func NewReporteService(expedienteRepo repository.ExpedienteRepository, indicioRepo repository.IndicioRepository) ReporteService {
	return &reporteService{expedienteRepo: expedienteRepo, indicioRepo: indicioRepo, now: time.Now}
}

// Aprobaciones lists expedientes by estado and registration date. desde and
// hasta are whole days, both inclusive.
func (s *reporteService) Aprobaciones(ctx context.Context, f dto.ReporteAprobacionesFilter) (*dto.ReporteAprobacionesResponse, error) {
	filtro := repository.ExpedienteFiltro{}
	filtros := map[string]string{"estado": "todos", "desde": "", "hasta": ""}

	if f.Estado != "" {
		estado, err := model.ParseEstado(f.Estado)
		if err != nil {
			return nil, nuevoError(ErrValidacion, "estado debe ser pendiente, aprobado o rechazado")
		}
		filtro.Estado = estado
		filtros["estado"] = f.Estado
	}
	if f.Desde != "" {
		d, err := time.ParseInLocation(fechaFiltro, f.Desde, time.Local)
		if err != nil {
			return nil, nuevoError(ErrValidacion, "desde debe tener formato AAAA-MM-DD")
		}
		filtro.Desde = &d
		filtros["desde"] = f.Desde
	}
	if f.Hasta != "" {
		h, err := time.ParseInLocation(fechaFiltro, f.Hasta, time.Local)
		if err != nil {
			return nil, nuevoError(ErrValidacion, "hasta debe tener formato AAAA-MM-DD")
		}
		h = h.AddDate(0, 0, 1)
		filtro.Hasta = &h
		filtros["hasta"] = f.Hasta
	}
	if filtro.Desde != nil && filtro.Hasta != nil && !filtro.Desde.Before(*filtro.Hasta) {
		return nil, nuevoError(ErrValidacion, "desde no puede ser posterior a hasta")
	}

	expedientes, err := s.expedienteRepo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}

	totales := make(map[string]int, len(model.Estados))
	for _, e := range model.Estados {
		totales[string(e)] = 0
	}
	resp := &dto.ReporteAprobacionesResponse{
		GeneradoEn:  s.now(),
		Filtros:     filtros,
		Totales:     totales,
		Expedientes: make([]dto.ExpedienteResponse, len(expedientes)),
	}
	for i := range expedientes {
		resp.Expedientes[i] = toExpedienteResponse(&expedientes[i])
		totales[string(expedientes[i].Estado)]++
	}
	return resp, nil
}

func (s *reporteService) Indicios(ctx context.Context, f dto.ReporteIndiciosFilter) (*dto.ReporteIndiciosResponse, error) {
	filtros := map[string]string{"expediente": "todos"}
	if f.ExpedienteID != 0 {
		exp, err := s.expedienteRepo.FindByID(ctx, f.ExpedienteID)
		if err != nil {
			return nil, noEncontrado(err, msgExpedienteNoEncontrado)
		}
		filtros["expediente"] = exp.Codigo
	}

	indicios, err := s.indicioRepo.List(ctx, repository.IndicioFiltro{ExpedienteID: f.ExpedienteID})
	if err != nil {
		return nil, err
	}
	resp := &dto.ReporteIndiciosResponse{
		GeneradoEn: s.now(),
		Filtros:    filtros,
		Total:      len(indicios),
		Indicios:   make([]dto.IndicioResponse, len(indicios)),
	}
	for i := range indicios {
		resp.Indicios[i] = toIndicioResponse(&indicios[i])
	}
	return resp, nil
}

func (s *reporteService) AprobacionesPDF(ctx context.Context, f dto.ReporteAprobacionesFilter) ([]byte, error) {
	rep, err := s.Aprobaciones(ctx, f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.WriteReporteAprobacionesPDF(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *reporteService) IndiciosPDF(ctx context.Context, f dto.ReporteIndiciosFilter) ([]byte, error) {
	rep, err := s.Indicios(ctx, f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.WriteReporteIndiciosPDF(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
