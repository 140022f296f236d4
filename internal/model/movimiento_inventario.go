package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento. Conjunto cerrado: cualquier otro valor se rechaza
// en el borde antes de llegar al motor de inventario.
const (
	TipoEntrada = "entrada"
	TipoSalida  = "salida"
	TipoCompra  = "compra"
	TipoVenta   = "venta"
	TipoAjuste  = "ajuste"
)

// TipoMovimientoValido reporta si tipo pertenece al conjunto cerrado.
func TipoMovimientoValido(tipo string) bool {
	switch tipo {
	case TipoEntrada, TipoSalida, TipoCompra, TipoVenta, TipoAjuste:
		return true
	}
	return false
}

// MovimientoInventario es el registro append-only de cada cambio de stock.
// Cantidad guarda siempre la magnitud positiva; el signo lo implica Tipo
// (entrada/compra suman, salida/venta restan, ajuste fija un valor absoluto
// y la magnitud es |StockNuevo - StockAnterior|).
//
// Invariante: reproducir los movimientos de un producto en orden de creación
// partiendo de 0 devuelve exactamente Producto.Cantidad.
type MovimientoInventario struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"`
	Cantidad      int       `gorm:"not null"` // magnitud, siempre >= 0
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"` // snapshot del stock tras aplicar el movimiento
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // compra_id cuando proviene de una compra
	// FechaMovimiento la declara el actor (fecha del remito, por ejemplo);
	// CreatedAt es la marca real de escritura y manda para la ventana de
	// edición de proveedores.
	FechaMovimiento time.Time `gorm:"not null"`
	CreatedAt       time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
