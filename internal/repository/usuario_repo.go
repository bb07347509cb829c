package repository

import (
	"context"
	"errors"

	"evidencias/internal/model"

	"gorm.io/gorm"
)

// ErrSinFila means an Update matched no row: the record is gone, or it was
// deactivated after the caller read it.
var ErrSinFila = errors.New("registro inexistente o inactivo")

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	// FindByUsername returns inactive users too; the login flow needs to tell them apart.
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uint) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	// CambiarActivo flips activo only if it still equals anterior.
	// It reports false when another request changed the row first.
	CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// Update writes rol, email and password_hash. Username is immutable and activo
// belongs to CambiarActivo.
func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	res := r.db.WithContext(ctx).Model(u).
		Select("rol", "email", "password_hash", "updated_at").
		Updates(u)
	return filaActualizada(res)
}

func (r *usuarioRepo) CambiarActivo(ctx context.Context, id uint, anterior bool) (bool, error) {
	return cambiarActivo(ctx, r.db, &model.Usuario{}, id, anterior)
}

// cambiarActivo is the compare-and-swap shared by every toggle endpoint.
func cambiarActivo(ctx context.Context, db *gorm.DB, m interface{}, id uint, anterior bool) (bool, error) {
	res := db.WithContext(ctx).Model(m).
		Where("id = ? AND activo = ?", id, anterior).
		Update("activo", !anterior)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func filaActualizada(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSinFila
	}
	return nil
}
