package repository

import (
	"context"
	"testing"

	"evidencias/internal/model"
	"evidencias/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	usuarios    UsuarioRepository
	expedientes ExpedienteRepository
	indicios    IndicioRepository
	tecnico     *model.Usuario
	coordinador *model.Usuario
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:          db,
		usuarios:    NewUsuarioRepository(db),
		expedientes: NewExpedienteRepository(db),
		indicios:    NewIndicioRepository(db),
		tecnico:     testutil.SeedUsuario(t, db, "tecnico1", "clave", model.RolTecnico, true),
		coordinador: testutil.SeedUsuario(t, db, "coord1", "clave", model.RolCoordinador, true),
	}
}

func (f *fixture) crearExpediente(t *testing.T, codigo string) *model.Expediente {
	t.Helper()
	e := &model.Expediente{
		Codigo:      codigo,
		Descripcion: "Robo en bodega",
		TecnicoID:   f.tecnico.ID,
		Estado:      model.EstadoPendiente,
		Activo:      true,
	}
	require.NoError(t, f.expedientes.Create(context.Background(), e))
	return e
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestUsuarioRepo_FindByUsernameIncludesInactive(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUsuario(t, f.db, "baja", "clave", model.RolTecnico, false)

	u, err := f.usuarios.FindByUsername(context.Background(), "baja")
	require.NoError(t, err)
	assert.False(t, u.Activo)

	_, err = f.usuarios.FindByUsername(context.Background(), "BAJA")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUsuarioRepo_ListOrderedByUsername(t *testing.T) {
	f := newFixture(t)
	users, err := f.usuarios.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "coord1", users[0].Username)
	assert.Equal(t, "tecnico1", users[1].Username)
}

func TestUsuarioRepo_DuplicateUsernameRejected(t *testing.T) {
	f := newFixture(t)
	err := f.usuarios.Create(context.Background(), &model.Usuario{
		Username: "tecnico1", PasswordHash: "x", Rol: model.RolTecnico, Activo: true,
	})
	assert.Error(t, err)
}

func TestUsuarioRepo_CambiarActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.usuarios.CambiarActivo(ctx, f.tecnico.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	u, err := f.usuarios.FindByID(ctx, f.tecnico.ID)
	require.NoError(t, err)
	assert.False(t, u.Activo)
}

// ── Expedientes ──────────────────────────────────────────────────────────────

func TestExpedienteRepo_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	e := f.crearExpediente(t, "EXP-001")

	got, err := f.expedientes.FindByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, got.Estado)
	assert.True(t, got.Activo)
	assert.False(t, got.FechaRegistro.IsZero())
	require.NotNil(t, got.Tecnico)
	assert.Equal(t, "tecnico1", got.Tecnico.Username)
	assert.Nil(t, got.Aprobador)
}

func TestExpedienteRepo_CodigoUnique(t *testing.T) {
	f := newFixture(t)
	f.crearExpediente(t, "EXP-001")

	err := f.expedientes.Create(context.Background(), &model.Expediente{
		Codigo: "EXP-001", Descripcion: "otra", TecnicoID: f.tecnico.ID, Estado: model.EstadoPendiente, Activo: true,
	})
	assert.Error(t, err)

	got, err := f.expedientes.FindByCodigo(context.Background(), "EXP-001")
	require.NoError(t, err)
	assert.Equal(t, "Robo en bodega", got.Descripcion)
}

func TestExpedienteRepo_UpdatePreloadsAprobador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-002")

	just := "Falta cadena de custodia"
	e.Estado = model.EstadoRechazado
	e.Justificacion = &just
	e.AprobadorID = &f.coordinador.ID
	require.NoError(t, f.expedientes.Update(ctx, e))

	got, err := f.expedientes.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoRechazado, got.Estado)
	require.NotNil(t, got.Aprobador)
	assert.Equal(t, "coord1", got.Aprobador.Username)
}

func TestExpedienteRepo_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.crearExpediente(t, "EXP-A")
	b := f.crearExpediente(t, "EXP-B")
	b.Estado = model.EstadoAprobado
	require.NoError(t, f.expedientes.Update(ctx, b))
	_, err := f.expedientes.CambiarActivo(ctx, b.ID, true)
	require.NoError(t, err)

	all, err := f.expedientes.List(ctx, ExpedienteFiltro{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	aprobados, err := f.expedientes.List(ctx, ExpedienteFiltro{Estado: model.EstadoAprobado})
	require.NoError(t, err)
	require.Len(t, aprobados, 1)
	assert.Equal(t, "EXP-B", aprobados[0].Codigo)

	activo := true
	activos, err := f.expedientes.List(ctx, ExpedienteFiltro{Activo: &activo})
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, "EXP-A", activos[0].Codigo)

	ajenos, err := f.expedientes.List(ctx, ExpedienteFiltro{TecnicoID: f.coordinador.ID})
	require.NoError(t, err)
	assert.Empty(t, ajenos)
}

func TestExpedienteRepo_CambiarActivoIsCompareAndSwap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-003")

	ok, err := f.expedientes.CambiarActivo(ctx, e.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second writer that still believes the row is active loses.
	ok, err = f.expedientes.CambiarActivo(ctx, e.ID, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.expedientes.CambiarActivo(ctx, e.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.expedientes.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Activo)
}

func TestExpedienteRepo_UpdateDoesNotReviveToggledRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-004")

	leido, err := f.expedientes.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, leido.Activo)

	ok, err := f.expedientes.CambiarActivo(ctx, e.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	leido.Descripcion = "Robo agravado"
	err = f.expedientes.Update(ctx, leido)
	assert.ErrorIs(t, err, ErrSinFila)

	got, err := f.expedientes.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)
	assert.Equal(t, "Robo en bodega", got.Descripcion)
}

func TestExpedienteRepo_UpdateNeverWritesActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-005")

	e.Activo = false
	e.Descripcion = "Hurto"
	require.NoError(t, f.expedientes.Update(ctx, e))

	got, err := f.expedientes.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Activo)
	assert.Equal(t, "Hurto", got.Descripcion)
}

func TestExpedienteRepo_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.expedientes.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := f.expedientes.CambiarActivo(context.Background(), 9999, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ── Indicios ─────────────────────────────────────────────────────────────────

func TestIndicioRepo_CreateAndListByExpediente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e1 := f.crearExpediente(t, "EXP-010")
	e2 := f.crearExpediente(t, "EXP-011")

	color := "negro"
	i := &model.Indicio{
		ExpedienteID: e1.ID,
		Descripcion:  "Navaja",
		Color:        &color,
		Peso:         decimal.NullDecimal{Decimal: decimal.RequireFromString("0.125"), Valid: true},
		TecnicoID:    f.tecnico.ID,
		Activo:       true,
	}
	require.NoError(t, f.indicios.Create(ctx, i))
	require.NoError(t, f.indicios.Create(ctx, &model.Indicio{
		ExpedienteID: e2.ID, Descripcion: "Casquillo", TecnicoID: f.tecnico.ID, Activo: true,
	}))

	got, err := f.indicios.FindByID(ctx, i.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Expediente)
	assert.Equal(t, "EXP-010", got.Expediente.Codigo)
	assert.Equal(t, "tecnico1", got.Tecnico.Username)
	assert.True(t, got.Peso.Valid)
	assert.True(t, got.Peso.Decimal.Equal(decimal.RequireFromString("0.125")))

	lista, err := f.indicios.List(ctx, IndicioFiltro{ExpedienteID: e1.ID})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Navaja", lista[0].Descripcion)

	todos, err := f.indicios.List(ctx, IndicioFiltro{})
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestIndicioRepo_NullPeso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-012")

	i := &model.Indicio{ExpedienteID: e.ID, Descripcion: "Huella", TecnicoID: f.tecnico.ID, Activo: true}
	require.NoError(t, f.indicios.Create(ctx, i))

	got, err := f.indicios.FindByID(ctx, i.ID)
	require.NoError(t, err)
	assert.False(t, got.Peso.Valid)
}

func TestIndicioRepo_CambiarActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-013")
	i := &model.Indicio{ExpedienteID: e.ID, Descripcion: "Fibra", TecnicoID: f.tecnico.ID, Activo: true}
	require.NoError(t, f.indicios.Create(ctx, i))

	ok, err := f.indicios.CambiarActivo(ctx, i.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	inactivo := false
	lista, err := f.indicios.List(ctx, IndicioFiltro{Activo: &inactivo})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, i.ID, lista[0].ID)
}

func TestIndicioRepo_UpdateRejectsInactiveRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.crearExpediente(t, "EXP-014")
	i := &model.Indicio{
		ExpedienteID: e.ID,
		Descripcion:  "Guante",
		Peso:         decimal.NullDecimal{Decimal: decimal.RequireFromString("0.2"), Valid: true},
		TecnicoID:    f.tecnico.ID,
		Activo:       true,
	}
	require.NoError(t, f.indicios.Create(ctx, i))

	// Clearing peso writes NULL.
	i.Peso = decimal.NullDecimal{}
	require.NoError(t, f.indicios.Update(ctx, i))
	got, err := f.indicios.FindByID(ctx, i.ID)
	require.NoError(t, err)
	assert.False(t, got.Peso.Valid)

	ok, err := f.indicios.CambiarActivo(ctx, i.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	i.Descripcion = "Guante de látex"
	assert.ErrorIs(t, f.indicios.Update(ctx, i), ErrSinFila)

	got, err = f.indicios.FindByID(ctx, i.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)
	assert.Equal(t, "Guante", got.Descripcion)
}

func TestUsuarioRepo_UpdateKeepsActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.usuarios.FindByUsername(ctx, "tecnico1")
	require.NoError(t, err)
	ok, err := f.usuarios.CambiarActivo(ctx, u.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	email := "t1@dicri.test"
	u.Email = &email
	require.NoError(t, f.usuarios.Update(ctx, u))

	got, err := f.usuarios.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)

	assert.ErrorIs(t, f.usuarios.Update(ctx, &model.Usuario{ID: 9999, Rol: model.RolTecnico}), ErrSinFila)
}
