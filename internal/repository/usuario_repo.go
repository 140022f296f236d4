package repository

import (
	"context"

	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioRepository es mínimo a propósito: el alta de usuarios y la emisión
// de tokens viven fuera de este servicio (cmd/seeduser siembra cuentas demo).
type UsuarioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	Upsert(ctx context.Context, u *model.Usuario) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Upsert(ctx context.Context, u *model.Usuario) error {
	existing, err := r.FindByEmail(ctx, u.Email)
	if err == nil {
		u.ID = existing.ID
		return r.db.WithContext(ctx).Save(u).Error
	}
	return r.db.WithContext(ctx).Create(u).Error
}
