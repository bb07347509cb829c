package sesion

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"evidencias/internal/dto"
	"evidencias/internal/model"
)

// ── Expedientes ──────────────────────────────────────────────────────────────

func (c *Cliente) ListarExpedientes(ctx context.Context, f dto.ExpedienteFilter) ([]dto.ExpedienteResponse, error) {
	q := url.Values{}
	if f.Estado != "" {
		q.Set("estado", f.Estado)
	}
	if f.Activo != nil {
		q.Set("activo", strconv.FormatBool(*f.Activo))
	}
	if f.TecnicoID != 0 {
		q.Set("tecnico_id", strconv.FormatUint(uint64(f.TecnicoID), 10))
	}
	path := "/api/expedientes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []dto.ExpedienteResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cliente) CrearExpediente(ctx context.Context, req dto.CrearExpedienteRequest) (*dto.ExpedienteResponse, error) {
	var out dto.ExpedienteResponse
	if err := c.do(ctx, http.MethodPost, "/api/expedientes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Cliente) ActualizarExpediente(ctx context.Context, id uint, req dto.ActualizarExpedienteRequest) (*dto.ExpedienteResponse, error) {
	var out dto.ExpedienteResponse
	if err := c.do(ctx, http.MethodPut, "/api/expedientes/"+strconv.FormatUint(uint64(id), 10), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Aprobar and Rechazar are coordinator-only; the guard spares a round trip.
func (c *Cliente) Aprobar(ctx context.Context, id uint, justificacion string) (*dto.ExpedienteResponse, error) {
	return c.dictaminar(ctx, id, model.EstadoAprobado, justificacion)
}

func (c *Cliente) Rechazar(ctx context.Context, id uint, justificacion string) (*dto.ExpedienteResponse, error) {
	return c.dictaminar(ctx, id, model.EstadoRechazado, justificacion)
}

func (c *Cliente) dictaminar(ctx context.Context, id uint, estado model.Estado, justificacion string) (*dto.ExpedienteResponse, error) {
	if err := c.RequiereRol(model.RolCoordinador); err != nil {
		return nil, err
	}
	e := string(estado)
	req := dto.ActualizarExpedienteRequest{Estado: &e}
	if justificacion != "" {
		req.Justificacion = &justificacion
	}
	return c.ActualizarExpediente(ctx, id, req)
}

func (c *Cliente) CambiarActivoExpediente(ctx context.Context, id uint) (*dto.ToggleResponse, error) {
	var out dto.ToggleResponse
	path := "/api/expedientes/activardesactivar/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodPut, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Indicios ─────────────────────────────────────────────────────────────────

// ListarIndicios lists every indicio, or those of one expediente when
// expedienteID is not zero.
func (c *Cliente) ListarIndicios(ctx context.Context, expedienteID uint) ([]dto.IndicioResponse, error) {
	path := "/api/indicios"
	if expedienteID != 0 {
		path += "/expediente/" + strconv.FormatUint(uint64(expedienteID), 10)
	}
	var out []dto.IndicioResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cliente) CrearIndicio(ctx context.Context, req dto.CrearIndicioRequest) (*dto.IndicioResponse, error) {
	var out dto.IndicioResponse
	if err := c.do(ctx, http.MethodPost, "/api/indicios", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
