package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/infra"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraService registra compras a proveedor. Cada compra con N detalles
// produce N movimientos "entrada" y sus incrementos de stock en una sola
// transacción; la eliminación revierte cada detalle como "salida" y es
// todo-o-nada: si un solo detalle no tiene stock para revertir, no se
// revierte ninguno y la compra queda.
type CompraService interface {
	CrearCompra(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	ActualizarCompra(ctx context.Context, id uuid.UUID, propietario *uuid.UUID, req dto.ActualizarCompraRequest) error
	EliminarCompra(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context) ([]dto.CompraResponse, error)
	ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]dto.CompraResponse, error)
	GenerarComprobante(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) ([]byte, error)
}

type compraService struct {
	repo       repository.CompraRepository
	inventario InventarioService
	tx         TxManager
}

func NewCompraService(repo repository.CompraRepository, inventario InventarioService, tx TxManager) CompraService {
	return &compraService{repo: repo, inventario: inventario, tx: tx}
}

func (s *compraService) CrearCompra(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	fecha, err := time.Parse(time.RFC3339, req.FechaCompra)
	if err != nil {
		return nil, fmt.Errorf("fecha_compra inválida: %w", err)
	}

	compra := &model.Compra{
		UsuarioID:   usuarioID,
		FechaCompra: fecha,
		Total:       req.Total,
	}
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		compra.Detalles = append(compra.Detalles, model.DetalleCompra{
			ProductoID:     pid,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
		})
	}

	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, compra); err != nil {
			return err
		}
		// Una entrada por detalle. Cualquier fallo (producto inexistente,
		// cantidad inválida) tira abajo encabezado, detalles y stock juntos.
		for _, d := range compra.Detalles {
			ref := compra.ID
			_, err := s.inventario.AplicarMovimientoTx(
				tx, d.ProductoID, model.TipoEntrada, d.Cantidad, fecha,
				fmt.Sprintf("Compra %s", compra.ID), &ref,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := compraToResponse(compra)
	return &resp, nil
}

// ActualizarCompra edita solo el encabezado (fecha y total declarado), como
// la pantalla de proveedor original: los detalles y el stock no se tocan.
func (s *compraService) ActualizarCompra(ctx context.Context, id uuid.UUID, propietario *uuid.UUID, req dto.ActualizarCompraRequest) error {
	compra, err := s.cargarConPermiso(ctx, id, propietario)
	if err != nil {
		return err
	}
	fecha, err := time.Parse(time.RFC3339, req.FechaCompra)
	if err != nil {
		return fmt.Errorf("fecha_compra inválida: %w", err)
	}
	compra.FechaCompra = fecha
	compra.Total = req.Total
	return s.repo.UpdateHeader(ctx, compra.ID, compra)
}

func (s *compraService) EliminarCompra(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) error {
	if _, err := s.cargarConPermiso(ctx, id, propietario); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		compra, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return traducirNoEncontrado(err, ErrCompraNoEncontrada)
		}
		// Reversión todo-o-nada: una salida por detalle; el primer detalle
		// sin stock suficiente aborta la transacción completa y la compra
		// no se elimina.
		for _, d := range compra.Detalles {
			ref := compra.ID
			_, err := s.inventario.AplicarMovimientoTx(
				tx, d.ProductoID, model.TipoSalida, d.Cantidad, time.Now(),
				fmt.Sprintf("Reversión compra %s", compra.ID), &ref,
			)
			if err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, compra.ID)
	})
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.cargarConPermiso(ctx, id, propietario)
	if err != nil {
		return nil, err
	}
	resp := compraToResponse(compra)
	return &resp, nil
}

func (s *compraService) Listar(ctx context.Context) ([]dto.CompraResponse, error) {
	compras, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return comprasToResponses(compras), nil
}

func (s *compraService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]dto.CompraResponse, error) {
	compras, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return comprasToResponses(compras), nil
}

// GenerarComprobante rinde el comprobante PDF de la compra, con el mismo
// control de pertenencia que el resto de las lecturas.
func (s *compraService) GenerarComprobante(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) ([]byte, error) {
	compra, err := s.cargarConPermiso(ctx, id, propietario)
	if err != nil {
		return nil, err
	}
	return infra.GenerarComprobantePDF(compra)
}

// cargarConPermiso devuelve la compra si existe y, cuando propietario no es
// nil (rutas de proveedor), verifica que le pertenezca. Una compra ajena se
// reporta como inexistente, sin revelar que existe.
func (s *compraService) cargarConPermiso(ctx context.Context, id uuid.UUID, propietario *uuid.UUID) (*model.Compra, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, ErrCompraNoEncontrada)
	}
	if propietario != nil && compra.UsuarioID != *propietario {
		return nil, ErrCompraNoEncontrada
	}
	return compra, nil
}

func compraToResponse(c *model.Compra) dto.CompraResponse {
	detalles := make([]dto.DetalleCompraResponse, 0, len(c.Detalles))
	for i := range c.Detalles {
		d := &c.Detalles[i]
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleCompraResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
		})
	}
	comprador := ""
	if c.Usuario != nil {
		comprador = c.Usuario.Nombre
	}
	return dto.CompraResponse{
		ID:          c.ID.String(),
		UsuarioID:   c.UsuarioID.String(),
		Comprador:   comprador,
		FechaCompra: c.FechaCompra.Format(time.RFC3339),
		Total:       c.Total,
		Detalles:    detalles,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func comprasToResponses(compras []model.Compra) []dto.CompraResponse {
	out := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		out = append(out, compraToResponse(&compras[i]))
	}
	return out
}
