package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Errores del núcleo de inventario. Todos abortan la transacción en curso:
// ningún fallo deja escrituras parciales, y ninguno se reintenta — el
// llamador decide con la información que lleva el mensaje.
var (
	ErrProductoNoEncontrado    = errors.New("producto no encontrado")
	ErrMovimientoNoEncontrado  = errors.New("movimiento de inventario no encontrado")
	ErrCompraNoEncontrada      = errors.New("compra no encontrada")
	ErrItemCarritoNoEncontrado = errors.New("el producto no está en el carrito")

	ErrTipoMovimientoInvalido = errors.New("el tipo de movimiento debe ser: entrada, salida, compra, venta o ajuste")
	ErrCantidadInvalida       = errors.New("la cantidad debe ser un entero mayor a 0")

	// ErrVentanaEdicionExpirada: un proveedor intentó modificar o eliminar un
	// movimiento de más de 24 horas.
	ErrVentanaEdicionExpirada = errors.New("no se pueden modificar movimientos de más de 24 horas")
	// ErrSoloEntradasProveedor: los proveedores solo operan sobre entradas.
	ErrSoloEntradasProveedor = errors.New("los proveedores solo pueden operar sobre movimientos de entrada")
)

// traducirNoEncontrado mapea gorm.ErrRecordNotFound al sentinel de dominio.
// Cualquier otro error de la base se propaga tal cual: un fallo transitorio
// nunca debe reportarse como "no existe".
func traducirNoEncontrado(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// StockInsuficienteError se devuelve cuando una salida/venta (o una reversión
// que resta) dejaría el stock en negativo. Lleva el stock vigente para que el
// llamador ajuste la cantidad y reintente.
type StockInsuficienteError struct {
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("no hay suficiente stock disponible. Stock actual: %d", e.Disponible)
}

// MovimientoIrreversibleError bloquea la edición o eliminación de un
// movimiento cuya reversión dejaría el stock en negativo; la fila original
// queda intacta.
type MovimientoIrreversibleError struct {
	Disponible int
	Requerido  int
}

func (e *MovimientoIrreversibleError) Error() string {
	return fmt.Sprintf("no se puede revertir: el stock actual (%d) es menor al movimiento registrado (%d)", e.Disponible, e.Requerido)
}
