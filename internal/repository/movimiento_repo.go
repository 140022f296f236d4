package repository

import (
	"context"

	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoFilter filtra el listado del libro de movimientos.
type MovimientoFilter struct {
	ProductoID *uuid.UUID
	Tipo       string
	Page       int
	Limit      int
}

// Normalizada acota la paginación a los valores efectivos: página mínima 1 y
// límite de 100 cuando el pedido queda fuera de [1, 500]. Es el único punto
// donde se ajusta, así la respuesta siempre refleja el límite realmente usado.
func (f MovimientoFilter) Normalizada() MovimientoFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 100
	}
	return f
}

// MovimientoRepository maneja el libro append-only de movimientos.
// Las filas solo se actualizan o borran desde la lógica compensatoria del
// InventarioService, siempre dentro de la misma transacción que revierte
// su efecto sobre el stock.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoInventario, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MovimientoInventario, error)
	UpdateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter MovimientoFilter) ([]model.MovimientoInventario, int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoInventario, error) {
	var m model.MovimientoInventario
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MovimientoInventario, error) {
	var m model.MovimientoInventario
	err := tx.First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoRepo) UpdateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Save(m).Error
}

func (r *movimientoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.MovimientoInventario{}, "id = ?", id).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	filter = filter.Normalizada()
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).Preload("Producto")
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var movimientos []model.MovimientoInventario
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movimientos).Error
	return movimientos, total, err
}
