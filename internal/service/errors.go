package service

import (
	"errors"

	"evidencias/internal/repository"

	"gorm.io/gorm"
)

// Sentinel kinds. Handlers map them to HTTP statuses; the message shown to
// the client comes from the wrapping *Error.
var (
	ErrValidacion      = errors.New("validacion")
	ErrCredenciales    = errors.New("credenciales")
	ErrUsuarioInactivo = errors.New("usuario inactivo")
	ErrProhibido       = errors.New("prohibido")
	ErrNoEncontrado    = errors.New("no encontrado")
	ErrConflicto       = errors.New("conflicto")
)

// Error is a domain failure with a message safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func nuevoError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// noEncontrado translates gorm's not-found into the domain error and passes
// every other failure through untouched.
func noEncontrado(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nuevoError(ErrNoEncontrado, msg)
	}
	return err
}

// carrera turns a write that lost to a concurrent toggle into a 409.
func carrera(err error) error {
	if errors.Is(err, repository.ErrSinFila) {
		return nuevoError(ErrConflicto, msgCarrera)
	}
	return err
}
