package service

import (
	"context"
	"errors"
	"strings"

	"evidencias/internal/dto"
	"evidencias/internal/model"
	"evidencias/internal/repository"
	"evidencias/internal/token"

	"gorm.io/gorm"
)

const (
	msgIndicioNoEncontrado = "Indicio no encontrado"
	msgIndicioInactivo     = "El indicio está inactivo"
)

type IndicioService interface {
	Crear(ctx context.Context, req dto.CrearIndicioRequest, actor token.Identity) (*dto.IndicioResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.IndicioResponse, error)
	Listar(ctx context.Context) ([]dto.IndicioResponse, error)
	ListarPorExpediente(ctx context.Context, expedienteID uint) ([]dto.IndicioResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarIndicioRequest) (*dto.IndicioResponse, error)
	CambiarActivo(ctx context.Context, id uint) (*dto.ToggleResponse, error)
}

type indicioService struct {
	repo           repository.IndicioRepository
	expedienteRepo repository.ExpedienteRepository
	usuarioRepo    repository.UsuarioRepository
}

func NewIndicioService(
	repo repository.IndicioRepository,
	expedienteRepo repository.ExpedienteRepository,
	usuarioRepo repository.UsuarioRepository,
) IndicioService {
	return &indicioService{repo: repo, expedienteRepo: expedienteRepo, usuarioRepo: usuarioRepo}
}

func (s *indicioService) Crear(ctx context.Context, req dto.CrearIndicioRequest, actor token.Identity) (*dto.IndicioResponse, error) {
	descripcion := strings.TrimSpace(req.Descripcion)
	if descripcion == "" {
		return nil, nuevoError(ErrValidacion, "descripcion es obligatoria")
	}
	if req.ExpedienteID == 0 {
		return nil, nuevoError(ErrValidacion, "expediente_id es obligatorio")
	}

	exp, err := s.expedienteRepo.FindByID(ctx, uint(req.ExpedienteID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nuevoError(ErrValidacion, "El expediente indicado no existe")
		}
		return nil, err
	}
	if !exp.Activo {
		return nil, nuevoError(ErrConflicto, msgExpedienteInactivo)
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

	i := &model.Indicio{
		ExpedienteID: exp.ID,
		Descripcion:  descripcion,
		Color:        opcional(req.Color),
		Tamano:       opcional(req.Tamano),
		Peso:         req.Peso.NullDecimal,
		Ubicacion:    opcional(req.Ubicacion),
		TecnicoID:    tecnicoID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, i.ID)
}

func (s *indicioService) ObtenerPorID(ctx context.Context, id uint) (*dto.IndicioResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgIndicioNoEncontrado)
	}
	resp := toIndicioResponse(i)
	return &resp, nil
}

func (s *indicioService) Listar(ctx context.Context) ([]dto.IndicioResponse, error) {
	return s.listar(ctx, repository.IndicioFiltro{})
}

func (s *indicioService) ListarPorExpediente(ctx context.Context, expedienteID uint) ([]dto.IndicioResponse, error) {
	if _, err := s.expedienteRepo.FindByID(ctx, expedienteID); err != nil {
		return nil, noEncontrado(err, msgExpedienteNoEncontrado)
	}
	return s.listar(ctx, repository.IndicioFiltro{ExpedienteID: expedienteID})
}

func (s *indicioService) listar(ctx context.Context, f repository.IndicioFiltro) ([]dto.IndicioResponse, error) {
	indicios, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.IndicioResponse, len(indicios))
	for i := range indicios {
		resp[i] = toIndicioResponse(&indicios[i])
	}
	return resp, nil
}

func (s *indicioService) Actualizar(ctx context.Context, id uint, req dto.ActualizarIndicioRequest) (*dto.IndicioResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgIndicioNoEncontrado)
	}
	if !i.Activo {
		return nil, nuevoError(ErrConflicto, msgIndicioInactivo)
	}

	if req.Descripcion != nil {
		d := strings.TrimSpace(*req.Descripcion)
		if d == "" {
			return nil, nuevoError(ErrValidacion, "descripcion no puede estar vacía")
		}
		i.Descripcion = d
	}
	if req.Color != nil {
		i.Color = opcional(req.Color)
	}
	if req.Tamano != nil {
		i.Tamano = opcional(req.Tamano)
	}
	if req.Ubicacion != nil {
		i.Ubicacion = opcional(req.Ubicacion)
	}
	if req.Peso.Presente {
		i.Peso = req.Peso.NullDecimal
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, carrera(err)
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *indicioService) CambiarActivo(ctx context.Context, id uint) (*dto.ToggleResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, msgIndicioNoEncontrado)
	}
	ok, err := s.repo.CambiarActivo(ctx, id, i.Activo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nuevoError(ErrConflicto, msgCarrera)
	}
	return toggleResponse("Indicio", i.Activo), nil
}
