package repository

import (
	"context"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository define el acceso a datos de productos. Los servicios
// dependen de esta interfaz, no de la implementación GORM, lo que permite
// tests unitarios con stubs en memoria.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListTodos(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error

	// FindByIDForUpdate carga el producto dentro de tx tomando un lock de
	// fila (SELECT ... FOR UPDATE). Es el contrato de concurrencia central:
	// dos operaciones simultáneas sobre el mismo producto se serializan acá.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// SetCantidadTx escribe la cantidad ya calculada dentro de tx. El valor
	// se calcula siempre bajo el lock de FindByIDForUpdate, nunca con un
	// incremento relativo sobre una lectura vieja.
	SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error

	// DB expone el *gorm.DB subyacente para que los servicios abran
	// transacciones (nil en tests unitarios).
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.EnStock {
		q = q.Where("cantidad > 0")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListTodos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("cantidad", cantidad).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
