package service

import (
	"strings"

	"evidencias/internal/dto"
	"evidencias/internal/model"
)

const msgCarrera = "El registro fue modificado por otra solicitud, intente de nuevo"

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID,
		Username:  u.Username,
		Rol:       u.Rol.String(),
		Email:     u.Email,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt,
	}
}

func toExpedienteResponse(e *model.Expediente) dto.ExpedienteResponse {
	r := dto.ExpedienteResponse{
		ID:            e.ID,
		Codigo:        e.Codigo,
		Descripcion:   e.Descripcion,
		FechaRegistro: e.FechaRegistro,
		TecnicoID:     e.TecnicoID,
		Justificacion: e.Justificacion,
		Estado:        string(e.Estado),
		AprobadorID:   e.AprobadorID,
		FechaEstado:   e.FechaEstado,
		Activo:        e.Activo,
	}
	if e.Tecnico != nil {
		r.TecnicoUsername = e.Tecnico.Username
	}
	if e.Aprobador != nil {
		r.AprobadorUsername = e.Aprobador.Username
	}
	return r
}

func toIndicioResponse(i *model.Indicio) dto.IndicioResponse {
	r := dto.IndicioResponse{
		ID:            i.ID,
		ExpedienteID:  i.ExpedienteID,
		Descripcion:   i.Descripcion,
		Color:         i.Color,
		Tamano:        i.Tamano,
		Peso:          i.Peso,
		Ubicacion:     i.Ubicacion,
		TecnicoID:     i.TecnicoID,
		FechaRegistro: i.FechaRegistro,
		Activo:        i.Activo,
	}
	if i.Expediente != nil {
		r.ExpedienteCodigo = i.Expediente.Codigo
	}
	if i.Tecnico != nil {
		r.TecnicoUsername = i.Tecnico.Username
	}
	return r
}

// toggleResponse describes the direction of a toggle from the value read
// before it was flipped.
func toggleResponse(entidad string, anterior bool) *dto.ToggleResponse {
	if anterior {
		return &dto.ToggleResponse{
			Message: entidad + " desactivado exitosamente",
			Accion:  "desactivado",
			Activo:  false,
		}
	}
	return &dto.ToggleResponse{
		Message: entidad + " activado exitosamente",
		Accion:  "activado",
		Activo:  true,
	}
}

// opcional normalizes an optional text field: blank becomes nil.
func opcional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
