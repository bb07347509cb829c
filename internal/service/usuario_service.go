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
	msgUsuarioNoEncontrado = "Usuario no encontrado"
	msgUsuarioDuplicado    = "El nombre de usuario ya existe"
)

type UsuarioService interface {
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	ObtenerPorUsername(ctx context.Context, username string) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, username string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	// CambiarActivo flips the account's activo flag on behalf of actor.
	CambiarActivo(ctx context.Context, username string, actor token.Identity) (*dto.ToggleResponse, error)
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, nuevoError(ErrValidacion, "username y password son obligatorios")
	}
	rol, err := model.ParseRol(req.Rol)
	if err != nil {
		return nil, nuevoError(ErrValidacion, "rol debe ser tecnico o coordinador")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, nuevoError(ErrConflicto, msgUsuarioDuplicado)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     username,
		PasswordHash: hash,
		Rol:          rol,
		Email:        opcional(req.Email),
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nuevoError(ErrConflicto, msgUsuarioDuplicado)
		}
		return nil, err
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = toUsuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *usuarioService) ObtenerPorUsername(ctx context.Context, username string) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, noEncontrado(err, msgUsuarioNoEncontrado)
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, username string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, noEncontrado(err, msgUsuarioNoEncontrado)
	}
	if req.Username != "" && req.Username != user.Username {
		return nil, nuevoError(ErrValidacion, "El nombre de usuario no puede modificarse")
	}

	if req.Rol != "" {
		rol, err := model.ParseRol(req.Rol)
		if err != nil {
			return nil, nuevoError(ErrValidacion, "rol debe ser tecnico o coordinador")
		}
		user.Rol = rol
	}
	if req.Email != nil {
		user.Email = opcional(req.Email)
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, carrera(err)
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) CambiarActivo(ctx context.Context, username string, actor token.Identity) (*dto.ToggleResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, noEncontrado(err, msgUsuarioNoEncontrado)
	}
	if user.Activo && user.ID == actor.ID {
		return nil, nuevoError(ErrConflicto, "No puede desactivar su propia cuenta")
	}

	ok, err := s.repo.CambiarActivo(ctx, user.ID, user.Activo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nuevoError(ErrConflicto, msgCarrera)
	}
	return toggleResponse("Usuario", user.Activo), nil
}
