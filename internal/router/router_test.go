package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"evidencias/internal/config"
	"evidencias/internal/dto"
	"evidencias/internal/model"
	"evidencias/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	engine  *gin.Engine
	db      *gorm.DB
	tecnico *model.Usuario
	coord   *model.Usuario
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		Env:                  "test",
		CORSOrigin:           "*",
		LoginRateLimit:       100,
		APIRateLimit:         1000,
		JWTSecret:            "router_test_secret_key",
		JWTExpirationMinutes: 60,
	}
	r, err := New(ctx, cfg, db, nil, nil)
	require.NoError(t, err)

	return &testEnv{
		engine:  r,
		db:      db,
		tecnico: testutil.SeedUsuario(t, db, "tecnico1", "clave123", model.RolTecnico, true),
		coord:   testutil.SeedUsuario(t, db, "coord1", "clave123", model.RolCoordinador, true),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": "clave123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_MissingFields(t *testing.T) {
	env := setupTestEnv(t)

	for _, body := range []any{
		map[string]string{"username": "tecnico1"},
		map[string]string{"password": "clave123"},
		"{not json",
	} {
		w := env.do(t, http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]any
		decode(t, w, &resp)
		assert.Equal(t, float64(400), resp["statusCode"])
		assert.Equal(t, "Bad Request", resp["status"])
		assert.Equal(t, "Usuario y contraseña requeridos", resp["message"])
	}
}

func TestLogin_Failures(t *testing.T) {
	env := setupTestEnv(t)
	testutil.SeedUsuario(t, env.db, "baja", "clave123", model.RolTecnico, false)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "tecnico1", "password": "mala"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "nadie", "password": "clave123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "baja", "password": "clave123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin_ReusesValidToken(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "tecnico1", "password": "clave123"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	decode(t, w, &resp)
	assert.Equal(t, token, resp.Token)
	assert.Equal(t, "Ya existe una sesión activa", resp.Message)
	assert.Equal(t, "tecnico", resp.User.Rol)
}

func TestLogout(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes_TokenGate(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/expedientes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/expedientes", nil, "no.es.valido")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestUsuarios_CoordinadorOnly(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/usuarios", nil, env.login(t, "tecnico1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/usuarios", nil, env.login(t, "coord1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestUsuarios_CrearYDesactivar(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "coord1")

	w := env.do(t, http.MethodPost, "/api/usuarios",
		map[string]string{"username": "nuevo", "password": "clave123", "rol": "tecnico"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPost, "/api/usuarios",
		map[string]string{"username": "nuevo", "password": "clave123", "rol": "tecnico"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/usuarios",
		map[string]string{"username": "otro", "password": "clave123", "rol": "administrador"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/usuarios/activardesactivar/nuevo", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var toggle dto.ToggleResponse
	decode(t, w, &toggle)
	assert.Equal(t, "desactivado", toggle.Accion)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "nuevo", "password": "clave123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/usuarios/activardesactivar/coord1", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// ── Expedientes ──────────────────────────────────────────────────────────────

func crearExpediente(t *testing.T, env *testEnv, token, codigo string) dto.ExpedienteResponse {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/expedientes",
		map[string]string{"codigo": codigo, "descripcion": "Robo en bodega"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var exp dto.ExpedienteResponse
	decode(t, w, &exp)
	return exp
}

func TestExpediente_RechazoFlow(t *testing.T) {
	env := setupTestEnv(t)
	tecnico := env.login(t, "tecnico1")
	coord := env.login(t, "coord1")

	exp := crearExpediente(t, env, tecnico, "EXP-001")
	assert.Equal(t, "pendiente", exp.Estado)
	assert.Equal(t, env.tecnico.ID, exp.TecnicoID)
	assert.Nil(t, exp.AprobadorID)
	path := "/api/expedientes/" + itoa(exp.ID)

	// A technician cannot adjudicate.
	w := env.do(t, http.MethodPut, path, map[string]string{"estado": "rechazado", "justificacion": "x"}, tecnico)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Rejection needs a reason.
	w = env.do(t, http.MethodPut, path, map[string]string{"estado": "rechazado"}, coord)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, path,
		map[string]any{"estado": "rechazado", "justificacion": "Falta cadena de custodia", "aprobador_id": 999}, coord)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got dto.ExpedienteResponse
	decode(t, w, &got)
	assert.Equal(t, "rechazado", got.Estado)
	require.NotNil(t, got.AprobadorID)
	assert.Equal(t, env.coord.ID, *got.AprobadorID)
	assert.NotNil(t, got.FechaEstado)
	require.NotNil(t, got.Justificacion)
	assert.Equal(t, "Falta cadena de custodia", *got.Justificacion)

	// The description is frozen once adjudicated.
	w = env.do(t, http.MethodPut, path, map[string]string{"descripcion": "otra"}, tecnico)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExpediente_CodigoDuplicado(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")
	crearExpediente(t, env, token, "EXP-001")

	w := env.do(t, http.MethodPost, "/api/expedientes",
		map[string]string{"codigo": "EXP-001", "descripcion": "otra"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExpediente_ToggleTwice(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")
	exp := crearExpediente(t, env, token, "EXP-002")
	path := "/api/expedientes/activardesactivar/" + itoa(exp.ID)

	var first, second dto.ToggleResponse
	w := env.do(t, http.MethodPut, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &first)

	w = env.do(t, http.MethodPut, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &second)

	assert.Equal(t, "desactivado", first.Accion)
	assert.False(t, first.Activo)
	assert.Equal(t, "activado", second.Accion)
	assert.True(t, second.Activo)
}

func TestExpediente_NotFoundAndBadID(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")

	w := env.do(t, http.MethodGet, "/api/expedientes/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/expedientes/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Indicios ─────────────────────────────────────────────────────────────────

func TestIndicio_NonNumericIDs(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")
	exp := crearExpediente(t, env, token, "EXP-009")

	tests := []struct {
		name string
		body string
	}{
		{"expediente_id", `{"expediente_id":"abc","descripcion":"Cuchillo"}`},
		{"tecnico_id", `{"expediente_id":` + itoa(exp.ID) + `,"descripcion":"Cuchillo","tecnico_id":"abc"}`},
		{"tecnico_id cero", `{"expediente_id":` + itoa(exp.ID) + `,"descripcion":"Cuchillo","tecnico_id":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/indicios", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	var n int64
	require.NoError(t, env.db.Model(&model.Indicio{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestIndicio_CrearYListarPorExpediente(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")
	exp := crearExpediente(t, env, token, "EXP-010")

	w := env.do(t, http.MethodPost, "/api/indicios",
		`{"expediente_id":"`+itoa(exp.ID)+`","descripcion":"Cuchillo","peso":"1.250","color":"gris"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ind dto.IndicioResponse
	decode(t, w, &ind)
	assert.Equal(t, exp.ID, ind.ExpedienteID)
	assert.Equal(t, "EXP-010", ind.ExpedienteCodigo)
	assert.True(t, ind.Peso.Valid)
	assert.Equal(t, "1.25", ind.Peso.Decimal.String())

	w = env.do(t, http.MethodGet, "/api/indicios/expediente/"+itoa(exp.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var lista []dto.IndicioResponse
	decode(t, w, &lista)
	assert.Len(t, lista, 1)

	w = env.do(t, http.MethodGet, "/api/indicios/expediente/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndicio_ActualizarPeso(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "tecnico1")
	exp := crearExpediente(t, env, token, "EXP-011")

	w := env.do(t, http.MethodPost, "/api/indicios",
		`{"expediente_id":`+itoa(exp.ID)+`,"descripcion":"Casquillo","peso":0.5}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ind dto.IndicioResponse
	decode(t, w, &ind)
	ruta := "/api/indicios/" + itoa(ind.ID)

	// Unparseable weight is ignored like an omitted one.
	w = env.do(t, http.MethodPut, ruta, `{"peso":"pesado"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &ind)
	assert.True(t, ind.Peso.Valid)
	assert.Equal(t, "0.5", ind.Peso.Decimal.String())

	w = env.do(t, http.MethodPut, ruta, `{"peso":null}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &ind)
	assert.False(t, ind.Peso.Valid)
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func TestReportes_RoleAndFormat(t *testing.T) {
	env := setupTestEnv(t)
	tecnico := env.login(t, "tecnico1")
	coord := env.login(t, "coord1")
	crearExpediente(t, env, tecnico, "EXP-020")

	w := env.do(t, http.MethodGet, "/api/reportes/aprobaciones", nil, tecnico)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/reportes/aprobaciones", nil, coord)
	require.Equal(t, http.StatusOK, w.Code)
	var rep dto.ReporteAprobacionesResponse
	decode(t, w, &rep)
	assert.Equal(t, 1, rep.Totales["pendiente"])

	w = env.do(t, http.MethodGet, "/api/reportes/indicios?formato=pdf", nil, tecnico)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

// ── Infra routes ─────────────────────────────────────────────────────────────

func TestHealthAndNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/health/db", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"connected"`)

	w = env.do(t, http.MethodGet, "/api/nada", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Ruta no encontrada: /api/nada")
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
