package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"evidencias/internal/dto"
	"evidencias/internal/metrics"
	"evidencias/internal/model"
	"evidencias/internal/repository"
	"evidencias/internal/token"
	"evidencias/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	msgExpedienteNoEncontrado = "Expediente no encontrado"
	msgExpedienteInactivo     = "El expediente está inactivo"
	msgCodigoDuplicado        = "Ya existe un expediente con ese código"
	msgAccesoDenegado         = "Acceso denegado"
)

// Notificador queues outbound notifications. *worker.Dispatcher implements it.
type Notificador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

type ExpedienteService interface {
	Crear(ctx context.Context, req dto.CrearExpedienteRequest, actor token.Identity) (*dto.ExpedienteResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ExpedienteResponse, error)
	Listar(ctx context.Context, filter dto.ExpedienteFilter) ([]dto.ExpedienteResponse, error)
	// Actualizar edits a record and, when the body carries a different estado,
	// adjudicates it. Only coordinators may change estado.
	Actualizar(ctx context.Context, id uint, req dto.ActualizarExpedienteRequest, actor token.Identity) (*dto.ExpedienteResponse, error)
	CambiarActivo(ctx context.Context, id uint) (*dto.ToggleResponse, error)
}

type expedienteService struct {
	repo        repository.ExpedienteRepository
	usuarioRepo repository.UsuarioRepository
	notificador Notificador
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewExpedienteService wires the lifecycle manager. notificador may be nil,
// in which case adjudications send no email.
func NewExpedienteService(
	repo repository.ExpedienteRepository,
	usuarioRepo repository.UsuarioRepository,
	notificador Notificador,
	m *metrics.Metrics,
) ExpedienteService {
	return &expedienteService{
		repo:        repo,
		usuarioRepo: usuarioRepo,
		notificador: notificador,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *expedienteService) Crear(ctx context.Context, req dto.CrearExpedienteRequest, actor token.Identity) (*dto.ExpedienteResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	descripcion := strings.TrimSpace(req.Descripcion)
	if codigo == "" || descripcion == "" {
		return nil, nuevoError(ErrValidacion, "codigo y descripcion son obligatorios")
	}

	tecnicoID := actor.ID
	if req.TecnicoID != nil {
		tecnicoID = uint(*req.TecnicoID)
		if _, err := s.usuarioRepo.FindByID(ctx, tecnicoID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nuevoError(ErrValidacion, "El técnico indicado no existe")
			}
			return nil, err
		}
	}

	if _, err := s.repo.FindByCodigo(ctx, codigo); err == nil {
		return nil, nuevoError(ErrConflicto, msgCodigoDuplicado)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	e := &model.Expediente{
		Codigo:        codigo,
		Descripcion:   descripcion,
		TecnicoID:     tecnicoID,
		Justificacion: opcional(req.Justificacion),
		Estado:        model.EstadoPendiente,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nuevoError(ErrConflicto, msgCodigoDuplicado)
		}
		return nil, err
	}
	return s.ObtenerPorID(ctx, e.ID)
}

func (s *expedienteService) ObtenerPorID(ctx context.Context, id uint) (*dto.ExpedienteResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgExpedienteNoEncontrado)
	}
	resp := toExpedienteResponse(e)
	return &resp, nil
}

func (s *expedienteService) Listar(ctx context.Context, filter dto.ExpedienteFilter) ([]dto.ExpedienteResponse, error) {
	f := repository.ExpedienteFiltro{Activo: filter.Activo, TecnicoID: filter.TecnicoID}
	if filter.Estado != "" {
		estado, err := model.ParseEstado(filter.Estado)
		if err != nil {
			return nil, nuevoError(ErrValidacion, "estado debe ser pendiente, aprobado o rechazado")
		}
		f.Estado = estado
	}

	expedientes, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ExpedienteResponse, len(expedientes))
	for i := range expedientes {
		resp[i] = toExpedienteResponse(&expedientes[i])
	}
	return resp, nil
}

func (s *expedienteService) Actualizar(ctx context.Context, id uint, req dto.ActualizarExpedienteRequest, actor token.Identity) (*dto.ExpedienteResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgExpedienteNoEncontrado)
	}
	if !e.Activo {
		return nil, nuevoError(ErrConflicto, msgExpedienteInactivo)
	}

	nuevo := e.Estado
	if req.Estado != nil {
		if nuevo, err = model.ParseEstado(*req.Estado); err != nil {
			return nil, nuevoError(ErrValidacion, "estado debe ser pendiente, aprobado o rechazado")
		}
	}
	transicion := nuevo != e.Estado
	if transicion && actor.Rol != model.RolCoordinador {
		return nil, nuevoError(ErrProhibido, msgAccesoDenegado)
	}

	if req.Descripcion != nil {
		d := strings.TrimSpace(*req.Descripcion)
		if d == "" {
			return nil, nuevoError(ErrValidacion, "descripcion no puede estar vacía")
		}
		if d != e.Descripcion {
			if e.Estado != model.EstadoPendiente {
				return nil, nuevoError(ErrConflicto, "Solo se puede modificar la descripción de expedientes pendientes")
			}
			e.Descripcion = d
		}
	}

	switch {
	case transicion:
		just := opcional(req.Justificacion)
		if nuevo == model.EstadoRechazado && just == nil {
			return nil, nuevoError(ErrValidacion, "La justificación es obligatoria al rechazar un expediente")
		}
		ahora := s.now()
		aprobador := actor.ID
		e.Estado = nuevo
		e.Justificacion = just
		e.AprobadorID = &aprobador
		e.FechaEstado = &ahora
	case req.Justificacion != nil:
		if e.Estado.Dictaminado() && actor.Rol != model.RolCoordinador {
			return nil, nuevoError(ErrProhibido, msgAccesoDenegado)
		}
		just := opcional(req.Justificacion)
		if e.Estado == model.EstadoRechazado && just == nil {
			return nil, nuevoError(ErrValidacion, "La justificación es obligatoria al rechazar un expediente")
		}
		e.Justificacion = just
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, carrera(err)
	}

	actualizado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transicion {
		s.metrics.Dictamen(string(nuevo))
		log.Info().
			Uint("expediente_id", id).
			Str("estado", string(nuevo)).
			Str("aprobador", actor.Username).
			Msg("expediente: cambio de estado")
		if nuevo.Dictaminado() {
			s.notificar(ctx, actualizado)
		}
	}
	resp := toExpedienteResponse(actualizado)
	return &resp, nil
}

func (s *expedienteService) CambiarActivo(ctx context.Context, id uint) (*dto.ToggleResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgExpedienteNoEncontrado)
	}
	ok, err := s.repo.CambiarActivo(ctx, id, e.Activo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nuevoError(ErrConflicto, msgCarrera)
	}
	return toggleResponse("Expediente", e.Activo), nil
}

// notificar is best effort: a queue failure never fails the adjudication.
func (s *expedienteService) notificar(ctx context.Context, e *model.Expediente) {
	if s.notificador == nil || e.Tecnico == nil || e.Tecnico.Email == nil {
		return
	}
	body := fmt.Sprintf("El expediente %s fue %s.", e.Codigo, e.Estado)
	if e.Justificacion != nil {
		body += "\n\nJustificación: " + *e.Justificacion
	}
	payload := worker.EmailJobPayload{
		ToEmail: *e.Tecnico.Email,
		Subject: fmt.Sprintf("Expediente %s %s", e.Codigo, e.Estado),
		Body:    body,
	}
	if err := s.notificador.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Uint("expediente_id", e.ID).Msg("expediente: no se pudo encolar la notificación")
	}
}
