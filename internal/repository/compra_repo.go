package repository

import (
	"context"

	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraRepository persiste compras a proveedor con sus detalles.
// Crear y eliminar siempre ocurren dentro de la transacción que mueve el
// stock, de ahí las variantes *Tx.
type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, c *model.Compra) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context) ([]model.Compra, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Compra, error)

	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	// Crea encabezado y detalles en cascada.
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").Preload("Detalles.Producto").Preload("Usuario").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Preload("Detalles").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) UpdateHeader(ctx context.Context, id uuid.UUID, c *model.Compra) error {
	return r.db.WithContext(ctx).Model(&model.Compra{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"fecha_compra": c.FechaCompra,
			"total":        c.Total,
		}).Error
}

func (r *compraRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Delete(&model.DetalleCompra{}, "compra_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Compra{}, "id = ?", id).Error
}

func (r *compraRepo) List(ctx context.Context) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").Preload("Detalles.Producto").Preload("Usuario").
		Order("created_at DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").Preload("Detalles.Producto").
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
