package repository

import (
	"context"

	"evidencias/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndicioFiltro narrows List. Zero values mean "no filter".
type IndicioFiltro struct {
	ExpedienteID uint
	Activo       *bool
}

type IndicioRepository interface {
	Create(ctx context.Context, i *model.Indicio) error
	FindByID(ctx context.Context, id uint) (*model.Indicio, error)
	List(ctx context.Context, f IndicioFiltro) ([]model.Indicio, error)
	Update(ctx context.Context, i *model.Indicio) error
	CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error)
}

type indicioRepo struct{ db *gorm.DB }

func NewIndicioRepository(db *gorm.DB) IndicioRepository { return &indicioRepo{db: db} }

func (r *indicioRepo) Create(ctx context.Context, i *model.Indicio) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(i).Error
}

func (r *indicioRepo) FindByID(ctx context.Context, id uint) (*model.Indicio, error) {
	var i model.Indicio
	err := r.db.WithContext(ctx).
		Preload("Expediente").
		Preload("Tecnico").
		First(&i, id).Error
	return &i, err
}

func (r *indicioRepo) List(ctx context.Context, f IndicioFiltro) ([]model.Indicio, error) {
	var indicios []model.Indicio

	q := r.db.WithContext(ctx).Model(&model.Indicio{}).
		Preload("Expediente").
		Preload("Tecnico")

	if f.ExpedienteID != 0 {
		q = q.Where("expediente_id = ?", f.ExpedienteID)
	}
	if f.Activo != nil {
		q = q.Where("activo = ?", *f.Activo)
	}

	err := q.Order("fecha_registro DESC").Order("id DESC").Find(&indicios).Error
	return indicios, err
}

func (r *indicioRepo) Update(ctx context.Context, i *model.Indicio) error {
	res := r.db.WithContext(ctx).Model(i).
		Select("descripcion", "color", "tamano", "peso", "ubicacion", "updated_at").
		Where("activo = ?", true).
		Updates(i)
	return filaActualizada(res)
}

func (r *indicioRepo) CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error) {
	return cambiarActivo(ctx, r.db, &model.Indicio{}, id, anterior)
}
