package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"evidencias/internal/dto"
	"evidencias/internal/metrics"
	"evidencias/internal/model"
	"evidencias/internal/repository"
	"evidencias/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is used for every stored password hash.
const BcryptCost = 12

const (
	msgLoginOK         = "Inicio de sesión exitoso"
	msgSesionActiva    = "Ya existe una sesión activa"
	msgLogoutOK        = "Sesión cerrada correctamente"
	msgCamposLogin     = "Usuario y contraseña requeridos"
	msgCredenciales    = "Credenciales incorrectas"
	msgUsuarioInactivo = "El usuario está inactivo"
)

type AuthService interface {
	// Login authenticates req. bearer is the token the client already holds,
	// if any; a valid one for the same user is returned unchanged.
	Login(ctx context.Context, req dto.LoginRequest, bearer string) (*dto.LoginResponse, error)
	Logout(ctx context.Context) *dto.LogoutResponse
}

type authService struct {
	repo    repository.UsuarioRepository
	tokens  *token.Service
	metrics *metrics.Metrics
}

func NewAuthService(repo repository.UsuarioRepository, tokens *token.Service, m *metrics.Metrics) AuthService {
	return &authService{repo: repo, tokens: tokens, metrics: m}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, bearer string) (*dto.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.metrics.Login("bad_request")
		return nil, nuevoError(ErrValidacion, msgCamposLogin)
	}

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.metrics.Login("invalid")
		return nil, nuevoError(ErrCredenciales, msgCredenciales)
	}
	if err != nil {
		return nil, err
	}
	if !user.Activo {
		s.metrics.Login("inactive")
		return nil, nuevoError(ErrUsuarioInactivo, msgUsuarioInactivo)
	}
	if !VerificarPassword(user.PasswordHash, req.Password) {
		s.metrics.Login("invalid")
		return nil, nuevoError(ErrCredenciales, msgCredenciales)
	}

	if bearer != "" {
		if id, err := s.tokens.Verify(bearer); err == nil &&
			id.Username == user.Username && id.Rol == user.Rol {
			s.metrics.Login("reused")
			return loginResponse(msgSesionActiva, user, bearer), nil
		}
	}

	signed, err := s.tokens.Issue(token.Identity{ID: user.ID, Username: user.Username, Rol: user.Rol})
	if err != nil {
		return nil, err
	}
	s.metrics.Login("ok")
	return loginResponse(msgLoginOK, user, signed), nil
}

// Logout is stateless: tokens are not revoked, the client discards its copy.
func (s *authService) Logout(_ context.Context) *dto.LogoutResponse {
	return &dto.LogoutResponse{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		Message:    msgLogoutOK,
	}
}

func loginResponse(msg string, u *model.Usuario, signed string) *dto.LoginResponse {
	return &dto.LoginResponse{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		Message:    msg,
		User:       dto.SesionUsuario{ID: u.ID, Username: u.Username, Rol: u.Rol.String()},
		Token:      signed,
	}
}

// ── Credential Verifier ──────────────────────────────────────────────────────

// HashPassword returns the bcrypt hash stored for a new or changed password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerificarPassword compares a candidate password against a stored hash.
// Malformed hashes simply fail verification.
func VerificarPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
