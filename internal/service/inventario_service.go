package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ventana dentro de la cual un proveedor puede editar o eliminar sus
// entradas. Cuenta desde CreatedAt, la marca real de escritura.
const ventanaEdicionProveedor = 24 * time.Hour

// InventarioService es el motor de conciliación de stock: toda acción que
// afecta la cantidad de un producto se aplica como par atómico
// (mutación de stock + asiento en el libro de movimientos), con lock de fila
// sobre el producto durante toda la transacción.
type InventarioService interface {
	RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	ActualizarMovimiento(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error)
	EliminarMovimiento(ctx context.Context, id uuid.UUID) error
	ListarMovimientos(ctx context.Context, filter repository.MovimientoFilter) (*dto.MovimientoListResponse, error)
	Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error)

	// EdicionProveedorPermitida es el control de política previo a
	// Actualizar/Eliminar en rutas de proveedor: solo entradas y solo dentro
	// de la ventana de 24 horas. El motor en sí no conoce el tiempo.
	EdicionProveedorPermitida(ctx context.Context, id uuid.UUID) error

	// AplicarMovimientoTx aplica un movimiento dentro de una transacción
	// ajena (la de CompraService). Requiere un tx vivo.
	AplicarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, fecha time.Time, motivo string, referenciaID *uuid.UUID) (*model.MovimientoInventario, error)
}

// StockAlertDispatcher encola alertas de stock bajo; la implementa
// worker.Dispatcher. El envío es best-effort, nunca afecta la operación.
type StockAlertDispatcher interface {
	EncolarAlertaStock(ctx context.Context, payload interface{}) error
}

type inventarioService struct {
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoRepository
	tx           TxManager
	dispatcher   StockAlertDispatcher
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoRepository,
	tx TxManager,
	dispatcher StockAlertDispatcher,
) InventarioService {
	return &inventarioService{
		productoRepo: productoRepo,
		movRepo:      movRepo,
		tx:           tx,
		dispatcher:   dispatcher,
	}
}

// ── Reglas de signo (funciones puras, sin estado) ────────────────────────────

// cantidadAplicada calcula el stock resultante de aplicar un movimiento y la
// magnitud a registrar en el libro. Para "ajuste", cantidad es el nuevo total
// absoluto y la magnitud es |nuevo − actual|.
func cantidadAplicada(actual int, tipo string, cantidad int) (nuevo, magnitud int, err error) {
	switch tipo {
	case model.TipoEntrada, model.TipoCompra:
		return actual + cantidad, cantidad, nil
	case model.TipoSalida, model.TipoVenta:
		if actual < cantidad {
			return 0, 0, &StockInsuficienteError{Disponible: actual}
		}
		return actual - cantidad, cantidad, nil
	case model.TipoAjuste:
		magnitud = cantidad - actual
		if magnitud < 0 {
			magnitud = -magnitud
		}
		return cantidad, magnitud, nil
	default:
		return 0, 0, ErrTipoMovimientoInvalido
	}
}

// cantidadRevertida deshace el efecto de un movimiento ya asentado partiendo
// del stock actual. Para "ajuste" aplica el delta inverso
// (StockAnterior − StockNuevo) en lugar de restaurar un valor absoluto, para
// que sobrevivan los movimientos ajenos intercalados desde entonces.
func cantidadRevertida(actual int, mov *model.MovimientoInventario) (int, error) {
	switch mov.Tipo {
	case model.TipoEntrada, model.TipoCompra:
		if actual < mov.Cantidad {
			return 0, &MovimientoIrreversibleError{Disponible: actual, Requerido: mov.Cantidad}
		}
		return actual - mov.Cantidad, nil
	case model.TipoSalida, model.TipoVenta:
		return actual + mov.Cantidad, nil
	case model.TipoAjuste:
		nuevo := actual + (mov.StockAnterior - mov.StockNuevo)
		if nuevo < 0 {
			return 0, &MovimientoIrreversibleError{Disponible: actual, Requerido: mov.StockNuevo - mov.StockAnterior}
		}
		return nuevo, nil
	default:
		return 0, ErrTipoMovimientoInvalido
	}
}

// validarCantidad aplica los límites de borde: entero >= 1, salvo ajuste
// donde el objetivo puede ser 0 pero no negativo.
func validarCantidad(tipo string, cantidad int) error {
	if tipo == model.TipoAjuste {
		if cantidad < 0 {
			return ErrCantidadInvalida
		}
		return nil
	}
	if cantidad < 1 {
		return ErrCantidadInvalida
	}
	return nil
}

// ── Operaciones ──────────────────────────────────────────────────────────────

func (s *inventarioService) RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	if !model.TipoMovimientoValido(req.Tipo) {
		return nil, ErrTipoMovimientoInvalido
	}
	if err := validarCantidad(req.Tipo, req.Cantidad); err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	var mov *model.MovimientoInventario
	var prod *model.Producto
	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		var err error
		mov, prod, err = s.aplicarTx(tx, pid, req.Tipo, req.Cantidad, fecha, "", nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificarStockBajo(ctx, prod, mov)
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *inventarioService) ActualizarMovimiento(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error) {
	if !model.TipoMovimientoValido(req.Tipo) {
		return nil, ErrTipoMovimientoInvalido
	}
	if err := validarCantidad(req.Tipo, req.Cantidad); err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	var mov *model.MovimientoInventario
	var prod *model.Producto
	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		var err error
		mov, err = s.movRepo.FindByIDTx(tx, id)
		if err != nil {
			return traducirNoEncontrado(err, ErrMovimientoNoEncontrado)
		}
		prod, err = s.productoRepo.FindByIDForUpdate(tx, mov.ProductoID)
		if err != nil {
			return traducirNoEncontrado(err, ErrProductoNoEncontrado)
		}

		// Revertir primero, reaplicar después — nunca un diff directo. El
		// stock puede haber cambiado por movimientos ajenos desde que este
		// asiento se creó, y solo este orden mantiene el libro consistente.
		restaurado, err := cantidadRevertida(prod.Cantidad, mov)
		if err != nil {
			return err
		}
		nuevo, magnitud, err := cantidadAplicada(restaurado, req.Tipo, req.Cantidad)
		if err != nil {
			return err
		}

		if err := s.productoRepo.SetCantidadTx(tx, prod.ID, nuevo); err != nil {
			return err
		}
		prod.Cantidad = nuevo

		// Se actualiza la fila existente, no se asienta una nueva.
		mov.Tipo = req.Tipo
		mov.Cantidad = magnitud
		mov.StockAnterior = restaurado
		mov.StockNuevo = nuevo
		mov.FechaMovimiento = fecha
		return s.movRepo.UpdateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificarStockBajo(ctx, prod, mov)
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *inventarioService) EliminarMovimiento(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		mov, err := s.movRepo.FindByIDTx(tx, id)
		if err != nil {
			return traducirNoEncontrado(err, ErrMovimientoNoEncontrado)
		}
		prod, err := s.productoRepo.FindByIDForUpdate(tx, mov.ProductoID)
		if err != nil {
			return traducirNoEncontrado(err, ErrProductoNoEncontrado)
		}

		restaurado, err := cantidadRevertida(prod.Cantidad, mov)
		if err != nil {
			// La reversión dejaría stock negativo: la fila no se borra.
			return err
		}
		if err := s.productoRepo.SetCantidadTx(tx, prod.ID, restaurado); err != nil {
			return err
		}
		return s.movRepo.DeleteTx(tx, mov.ID)
	})
}

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, fecha time.Time, motivo string, referenciaID *uuid.UUID) (*model.MovimientoInventario, error) {
	if !model.TipoMovimientoValido(tipo) {
		return nil, ErrTipoMovimientoInvalido
	}
	if err := validarCantidad(tipo, cantidad); err != nil {
		return nil, err
	}
	mov, _, err := s.aplicarTx(tx, productoID, tipo, cantidad, fecha, motivo, referenciaID)
	return mov, err
}

// aplicarTx es la sección crítica del motor: lee la cantidad bajo lock de
// fila, calcula la nueva según el tipo, y persiste stock + asiento juntos.
func (s *inventarioService) aplicarTx(tx *gorm.DB, productoID uuid.UUID, tipo string, cantidad int, fecha time.Time, motivo string, referenciaID *uuid.UUID) (*model.MovimientoInventario, *model.Producto, error) {
	prod, err := s.productoRepo.FindByIDForUpdate(tx, productoID)
	if err != nil {
		return nil, nil, traducirNoEncontrado(err, ErrProductoNoEncontrado)
	}

	anterior := prod.Cantidad
	nuevo, magnitud, err := cantidadAplicada(anterior, tipo, cantidad)
	if err != nil {
		return nil, nil, err
	}

	if err := s.productoRepo.SetCantidadTx(tx, prod.ID, nuevo); err != nil {
		return nil, nil, err
	}
	prod.Cantidad = nuevo

	mov := &model.MovimientoInventario{
		ProductoID:      prod.ID,
		Tipo:            tipo,
		Cantidad:        magnitud,
		StockAnterior:   anterior,
		StockNuevo:      nuevo,
		Motivo:          motivo,
		ReferenciaID:    referenciaID,
		FechaMovimiento: fecha,
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return nil, nil, err
	}
	return mov, prod, nil
}

func (s *inventarioService) EdicionProveedorPermitida(ctx context.Context, id uuid.UUID) error {
	mov, err := s.movRepo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, ErrMovimientoNoEncontrado)
	}
	if mov.Tipo != model.TipoEntrada {
		return ErrSoloEntradasProveedor
	}
	if time.Since(mov.CreatedAt) > ventanaEdicionProveedor {
		return ErrVentanaEdicionExpirada
	}
	return nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	// La respuesta informa la paginación efectiva, no la pedida.
	filter = filter.Normalizada()
	movimientos, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, movimientoToResponse(&movimientos[i]))
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventarioService) Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error) {
	productos, err := s.productoRepo.ListTodos(ctx)
	if err != nil {
		return nil, err
	}

	resumen := make([]dto.ResumenProducto, 0, len(productos))
	totales := dto.ResumenTotales{ValorTotalInventario: decimal.Zero}
	for i := range productos {
		p := &productos[i]
		valor := p.Precio.Mul(decimal.NewFromInt(int64(p.Cantidad)))

		estado := "Bueno"
		switch {
		case p.Cantidad == 0:
			estado = "Agotado"
			totales.ProductosAgotados++
		case p.Cantidad <= p.StockMinimo:
			estado = "Bajo"
			totales.ProductosEnStock++
		default:
			totales.ProductosEnStock++
		}

		var categoria *string
		if p.Categoria != nil {
			categoria = &p.Categoria.Nombre
		}
		resumen = append(resumen, dto.ResumenProducto{
			ID:          p.ID.String(),
			Nombre:      p.Nombre,
			Cantidad:    p.Cantidad,
			Precio:      p.Precio,
			Categoria:   categoria,
			ValorTotal:  valor,
			EstadoStock: estado,
		})
		totales.ProductosTotal++
		totales.ValorTotalInventario = totales.ValorTotalInventario.Add(valor)
	}

	return &dto.ResumenInventarioResponse{Productos: resumen, Totales: totales}, nil
}

// notificarStockBajo encola la alerta cuando el movimiento dejó el stock en o
// por debajo del mínimo. Best-effort: un error acá no afecta la operación.
func (s *inventarioService) notificarStockBajo(ctx context.Context, prod *model.Producto, mov *model.MovimientoInventario) {
	if s.dispatcher == nil || prod == nil || mov == nil {
		return
	}
	if mov.StockNuevo > prod.StockMinimo {
		return
	}
	_ = s.dispatcher.EncolarAlertaStock(ctx, map[string]interface{}{
		"producto_id":  prod.ID.String(),
		"producto":     prod.Nombre,
		"stock":        mov.StockNuevo,
		"stock_minimo": prod.StockMinimo,
	})
}

func parseFecha(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	fecha, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida: %w", err)
	}
	return fecha, nil
}

func movimientoToResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	nombre := ""
	if m.Producto != nil {
		nombre = m.Producto.Nombre
	}
	return dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Producto:      nombre,
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		Fecha:         m.FechaMovimiento.Format(time.RFC3339),
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}
