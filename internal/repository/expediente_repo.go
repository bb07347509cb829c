package repository

import (
	"context"
	"time"

	"evidencias/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpedienteFiltro narrows List. Zero values mean "no filter".
type ExpedienteFiltro struct {
	Estado    model.Estado
	Activo    *bool
	TecnicoID uint
	Desde     *time.Time // fecha_registro >= Desde
	Hasta     *time.Time // fecha_registro < Hasta
}

type ExpedienteRepository interface {
	Create(ctx context.Context, e *model.Expediente) error
	FindByID(ctx context.Context, id uint) (*model.Expediente, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Expediente, error)
	List(ctx context.Context, f ExpedienteFiltro) ([]model.Expediente, error)
	Update(ctx context.Context, e *model.Expediente) error
	CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error)
}

type expedienteRepo struct{ db *gorm.DB }

func NewExpedienteRepository(db *gorm.DB) ExpedienteRepository { return &expedienteRepo{db: db} }

func (r *expedienteRepo) Create(ctx context.Context, e *model.Expediente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *expedienteRepo) FindByID(ctx context.Context, id uint) (*model.Expediente, error) {
	var e model.Expediente
	err := r.db.WithContext(ctx).
		Preload("Tecnico").
		Preload("Aprobador").
		First(&e, id).Error
	return &e, err
}

func (r *expedienteRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Expediente, error) {
	var e model.Expediente
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&e).Error
	return &e, err
}

func (r *expedienteRepo) List(ctx context.Context, f ExpedienteFiltro) ([]model.Expediente, error) {
	var expedientes []model.Expediente

	q := r.db.WithContext(ctx).Model(&model.Expediente{}).
		Preload("Tecnico").
		Preload("Aprobador")

	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.Activo != nil {
		q = q.Where("activo = ?", *f.Activo)
	}
	if f.TecnicoID != 0 {
		q = q.Where("tecnico_id = ?", f.TecnicoID)
	}
	if f.Desde != nil {
		q = q.Where("fecha_registro >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_registro < ?", *f.Hasta)
	}

	err := q.Order("fecha_registro DESC").Order("id DESC").Find(&expedientes).Error
	return expedientes, err
}

// Update writes the editable columns of an active expediente. Activo is never
// written here; CambiarActivo owns it.
func (r *expedienteRepo) Update(ctx context.Context, e *model.Expediente) error {
	res := r.db.WithContext(ctx).Model(e).
		Select("descripcion", "justificacion", "estado", "aprobador_id", "fecha_estado", "updated_at").
		Where("activo = ?", true).
		Updates(e)
	return filaActualizada(res)
}

func (r *expedienteRepo) CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error) {
	return cambiarActivo(ctx, r.db, &model.Expediente{}, id, anterior)
}
