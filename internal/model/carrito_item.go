package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarritoItem es una reserva blanda: comprueba disponibilidad al escribirse
// pero no descuenta stock ni genera movimientos de inventario.
// Único por (usuario_id, producto_id): re-agregar el mismo producto fusiona
// cantidades en la línea existente.
type CarritoItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_carrito_usuario_producto"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_carrito_usuario_producto"`
	Cantidad   int       `gorm:"not null;default:1"`
	// PrecioUnitario se captura al agregar por primera vez y se conserva en
	// las fusiones posteriores.
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CarritoItem) TableName() string { return "carrito" }

// Subtotal de la línea: cantidad por el precio capturado.
func (i *CarritoItem) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}
