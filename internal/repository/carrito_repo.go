package repository

import (
	"context"

	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarritoRepository maneja las líneas de carrito por usuario. Total y
// ContarItems son agregaciones SQL recalculadas en cada llamada, sin caché.
type CarritoRepository interface {
	FindLineaTx(tx *gorm.DB, usuarioID, productoID uuid.UUID) (*model.CarritoItem, error)
	FindByIDYUsuario(ctx context.Context, id, usuarioID uuid.UUID) (*model.CarritoItem, error)
	CreateTx(tx *gorm.DB, item *model.CarritoItem) error
	UpdateCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUsuario(ctx context.Context, usuarioID uuid.UUID) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.CarritoItem, error)
	Total(ctx context.Context, usuarioID uuid.UUID) (decimal.Decimal, error)
	ContarItems(ctx context.Context, usuarioID uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type carritoRepo struct{ db *gorm.DB }

func NewCarritoRepository(db *gorm.DB) CarritoRepository { return &carritoRepo{db: db} }

func (r *carritoRepo) FindLineaTx(tx *gorm.DB, usuarioID, productoID uuid.UUID) (*model.CarritoItem, error) {
	var item model.CarritoItem
	err := tx.Where("usuario_id = ? AND producto_id = ?", usuarioID, productoID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *carritoRepo) FindByIDYUsuario(ctx context.Context, id, usuarioID uuid.UUID) (*model.CarritoItem, error) {
	var item model.CarritoItem
	err := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *carritoRepo) CreateTx(tx *gorm.DB, item *model.CarritoItem) error {
	return tx.Create(item).Error
}

func (r *carritoRepo) UpdateCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.CarritoItem{}).Where("id = ?", id).Update("cantidad", cantidad).Error
}

func (r *carritoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CarritoItem{}, "id = ?", id).Error
}

func (r *carritoRepo) DeleteByUsuario(ctx context.Context, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CarritoItem{}, "usuario_id = ?", usuarioID).Error
}

func (r *carritoRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.CarritoItem, error) {
	var items []model.CarritoItem
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("usuario_id = ?", usuarioID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *carritoRepo) Total(ctx context.Context, usuarioID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.CarritoItem{}).
		Where("usuario_id = ?", usuarioID).
		Select("SUM(cantidad * precio_unitario)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *carritoRepo) ContarItems(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var count *int64
	err := r.db.WithContext(ctx).Model(&model.CarritoItem{}).
		Where("usuario_id = ?", usuarioID).
		Select("SUM(cantidad)").
		Scan(&count).Error
	if err != nil || count == nil {
		return 0, err
	}
	return *count, nil
}

func (r *carritoRepo) DB() *gorm.DB { return r.db }
