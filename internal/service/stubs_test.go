package service

import (
	"context"
	"sort"
	"testing"

	"evidencias/internal/model"
	"evidencias/internal/repository"
	"evidencias/internal/worker"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ───────────────────────────────────────────────

type stubUsuarioRepo struct {
	users  map[uint]*model.Usuario
	nextID uint
	// carrera makes the next CambiarActivo lose the compare-and-swap.
	carrera bool
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uint]*model.Usuario)}
}

func (r *stubUsuarioRepo) seed(t *testing.T, username, password string, rol model.Rol, activo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: username, PasswordHash: string(hash), Rol: rol, Activo: activo}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, other := range r.users {
		if other.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	actual, ok := r.users[u.ID]
	if !ok {
		return repository.ErrSinFila
	}
	cp := *u
	cp.Activo = actual.Activo
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) CambiarActivo(_ context.Context, id uint, anterior bool) (bool, error) {
	u, ok := r.users[id]
	if !ok || r.carrera || u.Activo != anterior {
		return false, nil
	}
	u.Activo = !anterior
	return true, nil
}

type stubExpedienteRepo struct {
	rows     map[uint]*model.Expediente
	nextID   uint
	usuarios *stubUsuarioRepo
}

func newStubExpedienteRepo(usuarios *stubUsuarioRepo) *stubExpedienteRepo {
	return &stubExpedienteRepo{rows: make(map[uint]*model.Expediente), usuarios: usuarios}
}

func (r *stubExpedienteRepo) Create(_ context.Context, e *model.Expediente) error {
	for _, other := range r.rows {
		if other.Codigo == e.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}

// preload mimics the repository's Preload of Tecnico and Aprobador.
func (r *stubExpedienteRepo) preload(e model.Expediente) *model.Expediente {
	e.Tecnico = r.usuarios.users[e.TecnicoID]
	e.Aprobador = nil
	if e.AprobadorID != nil {
		e.Aprobador = r.usuarios.users[*e.AprobadorID]
	}
	return &e
}

func (r *stubExpedienteRepo) FindByID(_ context.Context, id uint) (*model.Expediente, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.preload(*e), nil
}

func (r *stubExpedienteRepo) FindByCodigo(_ context.Context, codigo string) (*model.Expediente, error) {
	for _, e := range r.rows {
		if e.Codigo == codigo {
			return r.preload(*e), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubExpedienteRepo) List(_ context.Context, f repository.ExpedienteFiltro) ([]model.Expediente, error) {
	out := []model.Expediente{}
	for _, e := range r.rows {
		if f.Estado != "" && e.Estado != f.Estado {
			continue
		}
		if f.Activo != nil && e.Activo != *f.Activo {
			continue
		}
		if f.TecnicoID != 0 && e.TecnicoID != f.TecnicoID {
			continue
		}
		if f.Desde != nil && e.FechaRegistro.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && !e.FechaRegistro.Before(*f.Hasta) {
			continue
		}
		out = append(out, *r.preload(*e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubExpedienteRepo) Update(_ context.Context, e *model.Expediente) error {
	if actual, ok := r.rows[e.ID]; !ok || !actual.Activo {
		return repository.ErrSinFila
	}
	cp := *e
	cp.Activo = true
	cp.Tecnico, cp.Aprobador = nil, nil
	r.rows[e.ID] = &cp
	return nil
}

func (r *stubExpedienteRepo) CambiarActivo(_ context.Context, id uint, anterior bool) (bool, error) {
	e, ok := r.rows[id]
	if !ok || e.Activo != anterior {
		return false, nil
	}
	e.Activo = !anterior
	return true, nil
}

type stubIndicioRepo struct {
	rows        map[uint]*model.Indicio
	nextID      uint
	expedientes *stubExpedienteRepo
}

func newStubIndicioRepo(expedientes *stubExpedienteRepo) *stubIndicioRepo {
	return &stubIndicioRepo{rows: make(map[uint]*model.Indicio), expedientes: expedientes}
}

func (r *stubIndicioRepo) Create(_ context.Context, i *model.Indicio) error {
	r.nextID++
	i.ID = r.nextID
	cp := *i
	r.rows[i.ID] = &cp
	return nil
}

func (r *stubIndicioRepo) preload(i model.Indicio) *model.Indicio {
	i.Expediente = r.expedientes.rows[i.ExpedienteID]
	i.Tecnico = r.expedientes.usuarios.users[i.TecnicoID]
	return &i
}

func (r *stubIndicioRepo) FindByID(_ context.Context, id uint) (*model.Indicio, error) {
	i, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.preload(*i), nil
}

func (r *stubIndicioRepo) List(_ context.Context, f repository.IndicioFiltro) ([]model.Indicio, error) {
	out := []model.Indicio{}
	for _, i := range r.rows {
		if f.ExpedienteID != 0 && i.ExpedienteID != f.ExpedienteID {
			continue
		}
		if f.Activo != nil && i.Activo != *f.Activo {
			continue
		}
		out = append(out, *r.preload(*i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *stubIndicioRepo) Update(_ context.Context, i *model.Indicio) error {
	if actual, ok := r.rows[i.ID]; !ok || !actual.Activo {
		return repository.ErrSinFila
	}
	cp := *i
	cp.Activo = true
	cp.Expediente, cp.Tecnico = nil, nil
	r.rows[i.ID] = &cp
	return nil
}

func (r *stubIndicioRepo) CambiarActivo(_ context.Context, id uint, anterior bool) (bool, error) {
	i, ok := r.rows[id]
	if !ok || i.Activo != anterior {
		return false, nil
	}
	i.Activo = !anterior
	return true, nil
}

// ── Notificador stub ─────────────────────────────────────────────────────────

type stubNotificador struct {
	enviados []worker.EmailJobPayload
	err      error
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	if n.err != nil {
		return n.err
	}
	n.enviados = append(n.enviados, p)
	return nil
}
