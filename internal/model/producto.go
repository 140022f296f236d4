package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto es el catálogo: identidad, precio y la cantidad vigente de stock.
// Cantidad nunca baja de cero y se modifica únicamente a través del
// InventarioService, dentro de una transacción con lock de fila.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Imagen      *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cantidad    int             `gorm:"not null;default:0"`
	// StockMinimo dispara la alerta de stock bajo cuando Cantidad queda
	// en o por debajo de este valor.
	StockMinimo int        `gorm:"not null;default:10"`
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	ProveedorID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Usuario   `gorm:"foreignKey:ProveedorID"`
}

// TieneStock indica si el producto puede cubrir la cantidad solicitada.
func (p *Producto) TieneStock(cantidad int) bool {
	return p.Cantidad >= cantidad
}
