package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra es el encabezado de una compra a proveedor. Crear una compra con N
// detalles produce N movimientos "entrada" y los incrementos de stock
// correspondientes, todo en una sola transacción; eliminarla revierte cada
// detalle como "salida" o no revierte nada.
type Compra struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	FechaCompra time.Time       `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Usuario  *Usuario        `gorm:"foreignKey:UsuarioID"`
	Detalles []DetalleCompra `gorm:"foreignKey:CompraID"`
}

type DetalleCompra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleCompra) TableName() string { return "detalle_compras" }
